package logs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/domain"
)

// FileProvider reads a JSON-lines log file (zerolog, Serilog compact JSON
// and similar). The file is re-read on every fetch.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for the file at path
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Fetch implements Provider.
func (p *FileProvider) Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	entries, err := p.readAll(ctx)
	if err != nil {
		return domain.LogPage{}, err
	}
	// File order is oldest first.
	slices.Reverse(entries)
	return Apply(entries, q), nil
}

func (p *FileProvider) readAll(ctx context.Context) ([]domain.LogEntry, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), constants.ScannerMaxBufferSize)

	var entries []domain.LogEntry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(line, &fields); err != nil {
			entries = append(entries, domain.LogEntry{
				ID:      strconv.Itoa(lineNo),
				Level:   domain.LevelInformation,
				Message: string(line),
			})
			continue
		}

		entry := entryFromFields(fields)
		if entry.ID == "" {
			entry.ID = strconv.Itoa(lineNo)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return entries, ctx.Err()
}
