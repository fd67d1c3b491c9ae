package domain

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Level names used by the built-in providers. Providers may report others.
const (
	LevelVerbose     = "Verbose"
	LevelDebug       = "Debug"
	LevelInformation = "Information"
	LevelWarning     = "Warning"
	LevelError       = "Error"
	LevelFatal       = "Fatal"
)

// LogEntry is a single record returned by a provider. The router passes
// entries through untouched; Properties carries provider-specific fields.
type LogEntry struct {
	ID              string         `json:"id,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
	Level           string         `json:"level,omitempty"`
	Message         string         `json:"message,omitempty"`
	MessageTemplate string         `json:"messageTemplate,omitempty"`
	Exception       string         `json:"exception,omitempty"`
	Properties      map[string]any `json:"properties,omitempty"`
}

// logEntryJSON is the wire form of LogEntry. A zero timestamp is omitted.
type logEntryJSON struct {
	ID              string         `json:"id,omitempty"`
	Timestamp       *time.Time     `json:"timestamp,omitempty"`
	Level           string         `json:"level,omitempty"`
	Message         string         `json:"message,omitempty"`
	MessageTemplate string         `json:"messageTemplate,omitempty"`
	Exception       string         `json:"exception,omitempty"`
	Properties      map[string]any `json:"properties,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	out := logEntryJSON{
		ID:              e.ID,
		Level:           e.Level,
		Message:         e.Message,
		MessageTemplate: e.MessageTemplate,
		Exception:       e.Exception,
		Properties:      e.Properties,
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = &e.Timestamp
	}
	return json.Marshal(out)
}

// LogQuery is a normalized log-fetch request.
type LogQuery struct {
	Page      int
	PageSize  int
	Level     string
	Search    string
	StartDate *time.Time // inclusive, nil means unbounded
	EndDate   *time.Time // inclusive, nil means unbounded
	Key       string     // provider key, empty selects the default provider
}

// InRange reports whether t falls within the query's inclusive date range
func (q LogQuery) InRange(t time.Time) bool {
	if q.StartDate != nil && t.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && t.After(*q.EndDate) {
		return false
	}
	return true
}

// MatchesLevel compares levels case-insensitively. An empty query level matches everything.
func (q LogQuery) MatchesLevel(level string) bool {
	return q.Level == "" || strings.EqualFold(q.Level, level)
}

// LogPage is one page of results plus the number of records matching the
// query without pagination.
type LogPage struct {
	Logs  []LogEntry
	Total int
}
