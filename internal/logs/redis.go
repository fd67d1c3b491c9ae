package logs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/charliek/logview/internal/domain"
)

type redisLister interface {
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisOptions configures a RedisProvider.
type RedisOptions struct {
	Addr       string // host:port or redis:// URL
	Password   string
	DB         int
	Key        string
	MaxEntries int // 0 reads the whole list
}

// RedisProvider reads JSON log entries from a Redis list populated with
// LPUSH, so index 0 is the newest entry.
type RedisProvider struct {
	client     redisLister
	closer     func() error
	key        string
	maxEntries int
}

// NewRedisProvider creates a provider backed by a go-redis client.
func NewRedisProvider(opts RedisOptions) (*RedisProvider, error) {
	var clientOpts *redis.Options
	if strings.HasPrefix(opts.Addr, "redis://") || strings.HasPrefix(opts.Addr, "rediss://") {
		parsed, err := redis.ParseURL(opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		clientOpts = parsed
	} else {
		clientOpts = &redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
	}

	client := redis.NewClient(clientOpts)
	return &RedisProvider{
		client:     client,
		closer:     client.Close,
		key:        opts.Key,
		maxEntries: opts.MaxEntries,
	}, nil
}

// Fetch implements Provider.
func (p *RedisProvider) Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	stop := int64(-1)
	if p.maxEntries > 0 {
		stop = int64(p.maxEntries - 1)
	}

	raw, err := p.client.LRange(ctx, p.key, 0, stop).Result()
	if err != nil {
		return domain.LogPage{}, fmt.Errorf("reading redis list %s: %w", p.key, err)
	}

	entries := make([]domain.LogEntry, 0, len(raw))
	for i, item := range raw {
		var fields map[string]any
		if err := json.Unmarshal([]byte(item), &fields); err != nil {
			entries = append(entries, domain.LogEntry{
				ID:      strconv.Itoa(i),
				Level:   domain.LevelInformation,
				Message: item,
			})
			continue
		}
		entry := entryFromFields(fields)
		if entry.ID == "" {
			entry.ID = strconv.Itoa(i)
		}
		entries = append(entries, entry)
	}

	return Apply(entries, q), nil
}

// Close closes the underlying client.
func (p *RedisProvider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
