package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/api"
	"github.com/charliek/logview/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5580/", "/serilog-ui/", "tok")

	if client.baseURL != "http://localhost:5580" {
		t.Errorf("expected baseURL without trailing slash, got %q", client.baseURL)
	}
	if client.prefix != "serilog-ui" {
		t.Errorf("expected trimmed prefix, got %q", client.prefix)
	}
	if client.httpClient == nil {
		t.Error("expected httpClient to be non-nil")
	}
}

func TestNewClient_DefaultPrefix(t *testing.T) {
	client := NewClient("http://localhost:5580", "", "")

	if client.prefix != "logs" {
		t.Errorf("expected default prefix 'logs', got %q", client.prefix)
	}
}

func TestClient_GetKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs/api/keys" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`["app","db"]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "logs", "s3cret")
	keys, err := client.GetKeys(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(keys, ",") != "app,db" {
		t.Errorf("expected [app db], got %v", keys)
	}
}

func TestClient_GetLogs(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs/api/logs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "db" || q.Get("level") != "Error" || q.Get("page") != "2" || q.Get("count") != "5" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("startDate") != "2024-05-01T00:00:00Z" {
			t.Errorf("unexpected startDate: %q", q.Get("startDate"))
		}
		if q.Has("endDate") || q.Has("search") {
			t.Errorf("zero values should be omitted: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header without a token")
		}

		json.NewEncoder(w).Encode(api.LogsResponse{
			Logs:        []domain.LogEntry{{ID: "1", Level: "Error", Message: "boom", Timestamp: from}},
			Total:       6,
			Count:       5,
			CurrentPage: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "logs", "")
	resp, err := client.GetLogs(context.Background(), domain.LogParams{
		Key:   "db",
		Level: "Error",
		Page:  2,
		Count: 5,
		From:  from,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Logs) != 1 || resp.Logs[0].Message != "boom" {
		t.Errorf("unexpected logs: %+v", resp.Logs)
	}
	if resp.Total != 6 || resp.CurrentPage != 2 || resp.Count != 5 {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestClient_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "logs", "")
	_, err := client.GetKeys(context.Background())

	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errorMessage":"unknown log provider: \"nope\""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "logs", "")
	_, err := client.GetLogs(context.Background(), domain.LogParams{Key: "nope"})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), `unknown log provider: "nope"`) {
		t.Errorf("expected server message in error, got %q", err.Error())
	}
}

func TestClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "logs", "")
	_, err := client.GetKeys(context.Background())

	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "logs", "")
	_, err := client.GetKeys(context.Background())

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected 'request failed' in error, got %q", err.Error())
	}
}
