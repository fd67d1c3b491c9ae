package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charliek/logview/internal/api"
	"github.com/charliek/logview/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// LogPrinter renders log entries for the terminal
type LogPrinter struct {
	out io.Writer
}

// NewLogPrinter creates a new LogPrinter writing to out
func NewLogPrinter(out io.Writer) *LogPrinter {
	return &LogPrinter{out: out}
}

// PrintEntry prints a single entry, followed by its exception if any
func (lp *LogPrinter) PrintEntry(entry domain.LogEntry) {
	stamp := strings.Repeat(" ", len(timestampLayout))
	if !entry.Timestamp.IsZero() {
		stamp = entry.Timestamp.Local().Format(timestampLayout)
	}
	ts := timestampStyle.Render(stamp)
	level := levelStyle(entry.Level).Render(levelAbbrev(entry.Level))
	fmt.Fprintf(lp.out, "%s %s %s\n", ts, level, entry.Message)

	if entry.Exception != "" {
		for _, line := range strings.Split(strings.TrimRight(entry.Exception, "\n"), "\n") {
			fmt.Fprintln(lp.out, exceptionStyle.Render(line))
		}
	}
}

// PrintPage prints every entry of a page and a summary line
func (lp *LogPrinter) PrintPage(resp *api.LogsResponse) {
	for _, entry := range resp.Logs {
		lp.PrintEntry(entry)
	}

	pages := 1
	if resp.Count > 0 && resp.Total > 0 {
		pages = (resp.Total + resp.Count - 1) / resp.Count
	}
	summary := fmt.Sprintf("page %d of %d, %d entries", resp.CurrentPage, pages, resp.Total)
	fmt.Fprintln(lp.out, footerStyle.Render(summary))
}
