package logs

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/domain"
)

// MemoryProvider keeps the most recent entries in a ring buffer. It also
// implements io.Writer for zerolog JSON output, which is how logview
// exposes its own logs.
type MemoryProvider struct {
	buffer *RingBuffer
	seq    atomic.Uint64
}

// NewMemoryProvider creates a memory provider holding up to capacity entries
func NewMemoryProvider(capacity int) *MemoryProvider {
	return &MemoryProvider{buffer: NewRingBuffer(capacity)}
}

// Append stores an entry. Entries without an ID get a sequence number.
func (p *MemoryProvider) Append(entry domain.LogEntry) {
	n := p.seq.Add(1)
	if entry.ID == "" {
		entry.ID = strconv.FormatUint(n, 10)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	p.buffer.Write(entry)
}

// Fetch implements Provider.
func (p *MemoryProvider) Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.LogPage{}, err
	}
	return Apply(p.buffer.Newest(), q), nil
}

// Len returns the number of buffered entries
func (p *MemoryProvider) Len() int {
	return p.buffer.Count()
}

// Write parses one zerolog JSON event and appends it. Lines that are not
// JSON objects are stored verbatim as Information messages.
func (p *MemoryProvider) Write(b []byte) (int, error) {
	line := strings.TrimSpace(string(b))
	if line == "" {
		return len(b), nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		p.Append(domain.LogEntry{Level: domain.LevelInformation, Message: line})
		return len(b), nil
	}

	p.Append(entryFromFields(fields))
	return len(b), nil
}

// entryFromFields maps a structured log record onto a LogEntry. Well-known
// keys become typed fields, everything else lands in Properties.
func entryFromFields(fields map[string]any) domain.LogEntry {
	var entry domain.LogEntry

	for key, value := range fields {
		s, isString := value.(string)
		switch strings.ToLower(key) {
		case "time", "timestamp", "@t":
			if isString {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Timestamp = t
					continue
				}
			}
		case "level", "@l":
			if isString {
				entry.Level = NormalizeLevel(s)
				continue
			}
		case "message", "msg", "@m":
			if isString {
				entry.Message = s
				continue
			}
		case "messagetemplate", "@mt":
			if isString {
				entry.MessageTemplate = s
				continue
			}
		case "error", "exception", "@x":
			if isString {
				entry.Exception = s
				continue
			}
		case "id":
			if isString {
				entry.ID = s
				continue
			}
		}
		if entry.Properties == nil {
			entry.Properties = make(map[string]any)
		}
		entry.Properties[key] = value
	}

	if entry.Level == "" {
		entry.Level = domain.LevelInformation
	}
	return entry
}

// NormalizeLevel maps common level spellings (zerolog, syslog-ish, Serilog
// short forms) onto the domain level names. Unknown levels are returned as-is.
func NormalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "verbose", "vrb":
		return domain.LevelVerbose
	case "debug", "dbg":
		return domain.LevelDebug
	case "info", "information", "inf":
		return domain.LevelInformation
	case "warn", "warning", "wrn":
		return domain.LevelWarning
	case "error", "err", "eror":
		return domain.LevelError
	case "fatal", "panic", "critical", "ftl":
		return domain.LevelFatal
	default:
		return level
	}
}
