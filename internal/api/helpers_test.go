package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/logs"
)

const (
	remoteAddr = "192.0.2.10:40000"
	localAddr  = "127.0.0.1:40000"

	testIndex = `<html><head><script>var cfg = "%(Configs)";</script>%(HeadContent)</head><body>%(BodyContent)</body></html>`
)

// recordingProvider returns fixed entries and remembers the last query.
type recordingProvider struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	total   int
	err     error
	last    domain.LogQuery
}

func (p *recordingProvider) Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = q
	if p.err != nil {
		return domain.LogPage{}, p.err
	}
	return domain.LogPage{Logs: p.entries, Total: p.total}, nil
}

func (p *recordingProvider) lastQuery() domain.LogQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// entries builds n entries whose messages start with name.
func entries(name string, n int) []domain.LogEntry {
	out := make([]domain.LogEntry, n)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = domain.LogEntry{
			ID:        fmt.Sprintf("%s-%d", name, i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
			Level:     domain.LevelInformation,
			Message:   fmt.Sprintf("%s-%d", name, i),
		}
	}
	return out
}

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte(testIndex)},
		"app.js":     {Data: []byte("console.log('logview');")},
		"style.css":  {Data: []byte("body{}")},
	}
}

type fixture struct {
	dispatcher *Dispatcher
	registry   *logs.Registry
	metrics    *Metrics
}

func newFixture(t *testing.T, opts Options, providers map[string]logs.Provider, order ...string) *fixture {
	t.Helper()

	registry := logs.NewRegistry()
	for _, name := range order {
		require.NoError(t, registry.Register(name, providers[name]))
	}

	metrics := NewMetrics(nil)
	return &fixture{
		dispatcher: NewDispatcher(opts, registry, testAssets(), metrics),
		registry:   registry,
		metrics:    metrics,
	}
}

func (f *fixture) do(method, target, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	f.dispatcher.ServeHTTP(w, req)
	return w
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, remoteAddr)
}

func httptestRequest(method, target, remote string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remote
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
