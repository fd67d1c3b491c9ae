// Package query turns raw log-fetch parameters into a domain.LogQuery.
//
// Parsing is lenient: malformed numbers and dates fall back to defaults
// instead of failing the request.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/domain"
)

// Query parameter names
const (
	ParamPage      = "page"
	ParamCount     = "count"
	ParamLevel     = "level"
	ParamSearch    = "search"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
	ParamKey       = "key"
)

// dateLayouts are tried in order. Layouts without an offset are read in time.Local.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Normalize extracts a LogQuery from query parameters.
func Normalize(values url.Values) domain.LogQuery {
	return domain.LogQuery{
		Page:      parseInt(values.Get(ParamPage), constants.DefaultPage),
		PageSize:  parseInt(values.Get(ParamCount), constants.DefaultPageSize),
		Level:     verbatim(values.Get(ParamLevel)),
		Search:    verbatim(values.Get(ParamSearch)),
		StartDate: ParseDate(values.Get(ParamStartDate)),
		EndDate:   ParseDate(values.Get(ParamEndDate)),
		Key:       strings.TrimSpace(values.Get(ParamKey)),
	}
}

// verbatim returns s unchanged unless it is blank, which counts as absent.
func verbatim(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// parseInt returns def for unparseable or zero input. Negative numbers are
// returned as-is.
func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}

// ParseDate parses s with the accepted layouts, returning nil when none match.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// Encode is the inverse of Normalize for clients building request URLs.
// Zero values are left out.
func Encode(params domain.LogParams) url.Values {
	v := url.Values{}
	if params.Key != "" {
		v.Set(ParamKey, params.Key)
	}
	if params.Page != 0 {
		v.Set(ParamPage, strconv.Itoa(params.Page))
	}
	if params.Count != 0 {
		v.Set(ParamCount, strconv.Itoa(params.Count))
	}
	if params.Level != "" {
		v.Set(ParamLevel, params.Level)
	}
	if params.Search != "" {
		v.Set(ParamSearch, params.Search)
	}
	if !params.From.IsZero() {
		v.Set(ParamStartDate, params.From.Format(time.RFC3339))
	}
	if !params.To.IsZero() {
		v.Set(ParamEndDate, params.To.Format(time.RFC3339))
	}
	return v
}
