package domain

import "time"

// LogParams holds parameters for log retrieval from the CLI client.
//
// Fields:
//   - Key: Provider to query. Empty string means the server's default provider.
//   - Page, Count: Pagination. 0 means use server default.
//   - Level: Exact level filter (case-insensitive). Empty means all levels.
//   - Search: Substring searched in message and exception. Empty means no filtering.
//   - From, To: Inclusive time bounds. Zero value means unbounded.
type LogParams struct {
	Key    string
	Page   int
	Count  int
	Level  string
	Search string
	From   time.Time
	To     time.Time
}
