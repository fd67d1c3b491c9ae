package logs

import (
	"math"
	"strings"

	"github.com/charliek/logview/internal/domain"
)

// Matches reports whether entry satisfies the level, search and date
// filters of q. Search is a case-insensitive substring match against the
// message and exception text.
func Matches(entry domain.LogEntry, q domain.LogQuery) bool {
	if !q.MatchesLevel(entry.Level) {
		return false
	}
	if !q.InRange(entry.Timestamp) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(entry.Message), needle) &&
			!strings.Contains(strings.ToLower(entry.Exception), needle) {
			return false
		}
	}
	return true
}

// Window converts page and count into a slice offset and limit. Pages
// below 1 read the first page; counts below 1 read nothing. Offsets that
// would overflow saturate at math.MaxInt.
func Window(page, count int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		return 0, 0
	}
	if page-1 > math.MaxInt/count {
		return math.MaxInt, count
	}
	return (page - 1) * count, count
}

// Paginate returns the requested page of entries.
func Paginate(entries []domain.LogEntry, page, count int) []domain.LogEntry {
	offset, limit := Window(page, count)
	if offset < 0 || offset >= len(entries) || limit == 0 {
		return []domain.LogEntry{}
	}
	end := offset + limit
	if end < offset || end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

// Apply filters entries (already in result order) with q and paginates
// the matches.
func Apply(entries []domain.LogEntry, q domain.LogQuery) domain.LogPage {
	matched := make([]domain.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if Matches(entry, q) {
			matched = append(matched, entry)
		}
	}
	return domain.LogPage{
		Logs:  Paginate(matched, q.Page, q.PageSize),
		Total: len(matched),
	}
}
