package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logview/internal/domain"
)

func TestNormalize_Defaults(t *testing.T) {
	q := Normalize(url.Values{})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Empty(t, q.Level)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.StartDate)
	assert.Nil(t, q.EndDate)
	assert.Empty(t, q.Key)
}

func TestNormalize_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		count     string
		wantPage  int
		wantCount int
	}{
		{"valid", "3", "25", 3, 25},
		{"unparseable", "abc", "xyz", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative passes through", "-2", "-5", -2, -5},
		{"padded", " 4 ", " 7", 4, 7},
		{"float", "1.5", "2.0", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Normalize(url.Values{"page": {tt.page}, "count": {tt.count}})
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantCount, q.PageSize)
		})
	}
}

func TestNormalize_TextFields(t *testing.T) {
	q := Normalize(url.Values{
		"level":  {"Error"},
		"search": {"  timeout  "},
		"key":    {" db "},
	})

	assert.Equal(t, "Error", q.Level)
	assert.Equal(t, "  timeout  ", q.Search)
	assert.Equal(t, "db", q.Key)
}

func TestNormalize_BlankTextIsAbsent(t *testing.T) {
	q := Normalize(url.Values{
		"key":    {"   "},
		"level":  {" "},
		"search": {"\t"},
	})
	assert.Empty(t, q.Key)
	assert.Empty(t, q.Level)
	assert.Empty(t, q.Search)
}

func TestParseDate(t *testing.T) {
	local := func(y int, m time.Month, d, h, min, s int) time.Time {
		return time.Date(y, m, d, h, min, s, 0, time.Local)
	}

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 utc", "2024-03-05T10:20:30Z", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"rfc3339 offset", "2024-03-05T10:20:30+02:00", time.Date(2024, 3, 5, 8, 20, 30, 0, time.UTC)},
		{"no offset is local", "2024-03-05T10:20:30", local(2024, 3, 5, 10, 20, 30)},
		{"minutes only", "2024-03-05T10:20", local(2024, 3, 5, 10, 20, 0)},
		{"space separated", "2024-03-05 10:20:30", local(2024, 3, 5, 10, 20, 30)},
		{"date only", "2024-03-05", local(2024, 3, 5, 0, 0, 0)},
		{"invariant culture", "03/05/2024 10:20:30", local(2024, 3, 5, 10, 20, 30)},
		{"invariant date only", "03/05/2024", local(2024, 3, 5, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.in)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %v, got %v", tt.want, *got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2024-13-45", "12345"} {
		assert.Nil(t, ParseDate(in), "input %q", in)
	}
}

func TestNormalize_InvalidDatesAreUnbounded(t *testing.T) {
	q := Normalize(url.Values{"startDate": {"not-a-date"}, "endDate": {"2024-01-02"}})
	assert.Nil(t, q.StartDate)
	require.NotNil(t, q.EndDate)
}

func TestEncode_RoundTrip(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	params := domain.LogParams{
		Key:    "db",
		Page:   2,
		Count:  50,
		Level:  "Warning",
		Search: "disk",
		From:   from,
	}

	q := Normalize(Encode(params))

	assert.Equal(t, "db", q.Key)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, "Warning", q.Level)
	assert.Equal(t, "disk", q.Search)
	require.NotNil(t, q.StartDate)
	assert.True(t, from.Equal(*q.StartDate))
	assert.Nil(t, q.EndDate)
}
