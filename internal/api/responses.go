package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/auth"
	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/logging"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// LogsResponse represents the response for GET /{prefix}/api/logs
type LogsResponse struct {
	Logs        []domain.LogEntry `json:"logs"`
	Total       int               `json:"total"`
	Count       int               `json:"count"`
	CurrentPage int               `json:"currentPage"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("encoding JSON response")
		status = http.StatusInternalServerError
		data = []byte(`{"errorMessage":"` + domain.GenericErrorMessage + `"}`)
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes the 500 envelope. Local callers see the real error
// text, everyone else the generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	message := domain.GenericErrorMessage
	if auth.IsLocalRequest(r) {
		message = err.Error()
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: message})
}
