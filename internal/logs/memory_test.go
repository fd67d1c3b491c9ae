package logs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logview/internal/domain"
)

func TestMemoryProvider_FetchNewestFirst(t *testing.T) {
	p := NewMemoryProvider(100)
	for i := 0; i < 15; i++ {
		p.Append(makeEntry(fmt.Sprintf("entry %d", i)))
	}

	page, err := p.Fetch(context.Background(), domain.LogQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 15, page.Total)
	require.Len(t, page.Logs, 10)
	assert.Equal(t, "entry 14", page.Logs[0].Message)
	assert.Equal(t, "15", page.Logs[0].ID)

	page, err = p.Fetch(context.Background(), domain.LogQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 5)
	assert.Equal(t, "entry 4", page.Logs[0].Message)
}

func TestMemoryProvider_StableOrdering(t *testing.T) {
	p := NewMemoryProvider(100)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p.Append(domain.LogEntry{Timestamp: ts, Level: domain.LevelDebug, Message: fmt.Sprint(i)})
	}

	q := domain.LogQuery{Page: 1, PageSize: 5}
	first, err := p.Fetch(context.Background(), q)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first.Logs, second.Logs)
}

func TestMemoryProvider_CancelledContext(t *testing.T) {
	p := NewMemoryProvider(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, domain.LogQuery{Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryProvider_WriteZerolog(t *testing.T) {
	p := NewMemoryProvider(10)
	logger := zerolog.New(p).With().Timestamp().Logger()

	logger.Warn().Str("provider", "db").Msg("slow query")
	logger.Error().Err(fmt.Errorf("connection refused")).Msg("fetch failed")

	page, err := p.Fetch(context.Background(), domain.LogQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Logs, 2)

	failed := page.Logs[0]
	assert.Equal(t, domain.LevelError, failed.Level)
	assert.Equal(t, "fetch failed", failed.Message)
	assert.Equal(t, "connection refused", failed.Exception)
	assert.False(t, failed.Timestamp.IsZero())

	slow := page.Logs[1]
	assert.Equal(t, domain.LevelWarning, slow.Level)
	assert.Equal(t, "db", slow.Properties["provider"])
}

func TestMemoryProvider_WritePlainText(t *testing.T) {
	p := NewMemoryProvider(10)

	n, err := p.Write([]byte("plain line\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	n, err = p.Write([]byte("   \n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, 1, p.Len())
	page, err := p.Fetch(context.Background(), domain.LogQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "plain line", page.Logs[0].Message)
	assert.Equal(t, domain.LevelInformation, page.Logs[0].Level)
}

func TestNormalizeLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   domain.LevelVerbose,
		"debug":   domain.LevelDebug,
		"INFO":    domain.LevelInformation,
		"warn":    domain.LevelWarning,
		"error":   domain.LevelError,
		"panic":   domain.LevelFatal,
		"Custom":  "Custom",
		"wrn":     domain.LevelWarning,
		" fatal ": domain.LevelFatal,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLevel(in), "input %q", in)
	}
}
