package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/logging"
	"github.com/charliek/logview/internal/query"
	"github.com/charliek/logview/internal/web"
)

const permissionDeniedPage = "You don't have enough permission to access this page!"

// providerError tags a fetch failure with the provider it came from. The
// message is the underlying error's.
type providerError struct {
	provider string
	err      error
}

func (e *providerError) Error() string { return e.err.Error() }
func (e *providerError) Unwrap() error { return e.err }

// handlerFunc is an HTTP handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to http.HandlerFunc, turning a returned error into the
// 500 envelope.
func (d *Dispatcher) handle(route string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			d.metrics.failure(route)
			event := logging.Error().
				Err(err).
				Str("route", route).
				Str("code", domain.ErrorCode(err)).
				Str("request_id", middleware.GetReqID(r.Context()))
			var pe *providerError
			if errors.As(err, &pe) {
				event = event.Str("provider", pe.provider)
			}
			event.Msg("request failed")
			writeError(w, r, err)
		}
	}
}

// authorize runs the chain. A false result with a nil error means the
// caller was denied.
func (d *Dispatcher) authorize(route string, r *http.Request) (bool, error) {
	ok, err := d.opts.Chain.CanAccess(r)
	if err != nil {
		return false, err
	}
	if !ok {
		d.metrics.denied(route)
	}
	return ok, nil
}

// Keys handles GET /{prefix}/api/keys
func (d *Dispatcher) Keys(w http.ResponseWriter, r *http.Request) error {
	ok, err := d.authorize(routeKeys, r)
	if err != nil {
		return err
	}
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return nil
	}

	writeJSON(w, http.StatusOK, d.registry.Keys())
	return nil
}

// Logs handles GET /{prefix}/api/logs
func (d *Dispatcher) Logs(w http.ResponseWriter, r *http.Request) error {
	ok, err := d.authorize(routeLogs, r)
	if err != nil {
		return err
	}
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return nil
	}

	q := query.Normalize(r.URL.Query())

	session := d.registry.NewSession()
	if q.Key != "" {
		if err := session.SwitchToProvider(q.Key); err != nil {
			return err
		}
	}

	page, err := session.FetchData(r.Context(), q)
	if err != nil {
		if key, keyErr := session.ActiveKey(); keyErr == nil {
			return &providerError{provider: key, err: err}
		}
		return err
	}

	writeJSON(w, http.StatusOK, toLogsResponse(page, q))
	return nil
}

// Index handles GET /{prefix}/index.html
func (d *Dispatcher) Index(w http.ResponseWriter, r *http.Request) error {
	ok, err := d.authorize(routeIndex, r)
	if err != nil {
		return err
	}
	if !ok {
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(permissionDeniedPage))
		return nil
	}

	page, err := d.renderer.Render()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
	return nil
}

// Redirect handles GET /{prefix} and /{prefix}/. The query string is kept
// so a ?token survives the redirect.
func (d *Dispatcher) Redirect(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSuffix(r.URL.Path, "/") + "/" + web.IndexFile
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusMovedPermanently)
}

func toLogsResponse(page domain.LogPage, q domain.LogQuery) LogsResponse {
	return LogsResponse{
		Logs:        page.Logs,
		Total:       page.Total,
		Count:       q.PageSize,
		CurrentPage: q.Page,
	}
}
