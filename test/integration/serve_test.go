package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type logsResponse struct {
	Logs []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"logs"`
	Total       int `json:"total"`
	Count       int `json:"count"`
	CurrentPage int `json:"currentPage"`
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()

	resp, err := http.Get(url)
	requireNoError(t, err, "request failed")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode %s: %v", url, err)
	}
}

func TestServe_Endpoints(t *testing.T) {
	skipShort(t)

	binary := buildBinary(t)
	cmd := startLogview(t, binary, "serve", "-c", writeFixture(t, ""))
	defer killLogview(cmd)

	waitForServer(t, testAPIAddr, 10*time.Second)

	t.Run("keys", func(t *testing.T) {
		var keys []string
		getJSON(t, testAPIAddr+"/logs/api/keys", &keys)

		if strings.Join(keys, ",") != "self,app" {
			t.Errorf("expected keys [self app], got %v", keys)
		}
	})

	t.Run("logs from default provider", func(t *testing.T) {
		var resp logsResponse
		getJSON(t, testAPIAddr+"/logs/api/logs?page=1&count=2", &resp)

		if resp.Total != 3 {
			t.Errorf("expected total 3, got %d", resp.Total)
		}
		if len(resp.Logs) != 2 {
			t.Fatalf("expected 2 logs, got %d", len(resp.Logs))
		}
		if resp.Logs[0].Message != "upstream timeout" {
			t.Errorf("expected newest entry first, got %q", resp.Logs[0].Message)
		}
	})

	t.Run("level filter", func(t *testing.T) {
		var resp logsResponse
		getJSON(t, testAPIAddr+"/LOGS/api/logs?key=app&level=Warning", &resp)

		if resp.Total != 1 || resp.Logs[0].Message != "cache miss rate high" {
			t.Errorf("unexpected filtered result: %+v", resp)
		}
	})

	t.Run("self logs", func(t *testing.T) {
		var resp logsResponse
		getJSON(t, testAPIAddr+"/logs/api/logs?key=self", &resp)

		if resp.Total == 0 {
			t.Error("expected the server's own logs to be captured")
		}
	})

	t.Run("redirect", func(t *testing.T) {
		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}
		resp, err := client.Get(testAPIAddr + "/logs/")
		requireNoError(t, err, "request failed")
		resp.Body.Close()

		if resp.StatusCode != http.StatusMovedPermanently {
			t.Fatalf("expected 301, got %d", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/logs/index.html" {
			t.Errorf("expected Location /logs/index.html, got %q", loc)
		}
	})

	t.Run("index", func(t *testing.T) {
		resp, err := http.Get(testAPIAddr + "/logs/index.html")
		requireNoError(t, err, "request failed")
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if strings.Contains(string(body), "%(Configs)") {
			t.Error("index placeholders were not substituted")
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(testAPIAddr + "/metrics")
		requireNoError(t, err, "request failed")
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "logview_ui_http_requests_total") {
			t.Error("expected ui request metrics to be exported")
		}
	})

	stopLogview(t, cmd, 10*time.Second)
}

func TestServe_TokenAuth(t *testing.T) {
	skipShort(t)

	binary := buildBinary(t)
	cmd := startLogview(t, binary, "serve", "-c", writeFixture(t, "auth:\n  token: integration-secret\n"))
	defer killLogview(cmd)

	waitForServer(t, testAPIAddr, 10*time.Second)

	resp, err := http.Get(testAPIAddr + "/logs/api/keys")
	requireNoError(t, err, "request failed")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, testAPIAddr+"/logs/api/keys", nil)
	req.Header.Set("Authorization", "Bearer integration-secret")
	resp, err = http.DefaultClient.Do(req)
	requireNoError(t, err, "request failed")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp.StatusCode)
	}

	stopLogview(t, cmd, 10*time.Second)
}
