package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

const (
	testAPIPort = 15580
	testAPIAddr = "http://127.0.0.1:15580"
)

// buildBinary builds the logview binary and returns its path
func buildBinary(t *testing.T) string {
	t.Helper()

	// Get project root (two directories up from test/integration)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	projectRoot := filepath.Join(wd, "..", "..")

	binary := filepath.Join(t.TempDir(), "logview")

	cmd := exec.Command("go", "build", "-o", binary, "./cmd/logview")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, output)
	}

	return binary
}

// writeFixture writes a JSONL log file and a config serving it, returning
// the config path
func writeFixture(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	logFile := filepath.Join(dir, "app.log")
	lines := `{"timestamp":"2024-05-01T12:00:00Z","level":"Information","message":"service started"}
{"timestamp":"2024-05-01T12:01:00Z","level":"Warning","message":"cache miss rate high"}
{"timestamp":"2024-05-01T12:02:00Z","level":"Error","message":"upstream timeout","exception":"context deadline exceeded"}
`
	if err := os.WriteFile(logFile, []byte(lines), 0o644); err != nil {
		t.Fatalf("failed to write log file: %v", err)
	}

	cfg := fmt.Sprintf(`server:
  host: 127.0.0.1
  port: %d
logging:
  level: debug
default_provider: app
providers:
  - name: app
    type: file
    path: %s
%s`, testAPIPort, logFile, extra)

	path := filepath.Join(dir, "logview.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// startLogview starts the logview binary with the given arguments
func startLogview(t *testing.T, binary string, args ...string) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start logview: %v", err)
	}

	return cmd
}

// runLogview runs a client command to completion and returns its stdout
func runLogview(t *testing.T, binary string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return stdout.String(), fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// waitForServer waits for the health endpoint to answer
func waitForServer(t *testing.T, addr string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(addr + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not become ready within %v", timeout)
}

// stopLogview sends SIGTERM and waits for a clean exit
func stopLogview(t *testing.T, cmd *exec.Cmd, timeout time.Duration) {
	t.Helper()

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("failed to signal logview: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("logview exited with error: %v", err)
		}
	case <-time.After(timeout):
		killLogview(cmd)
		t.Fatalf("logview did not exit within %v", timeout)
	}
}

// killLogview forcefully kills the logview process
func killLogview(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil && cmd.ProcessState == nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
}

// requireNoError fails the test if err is not nil
func requireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// skipShort skips the test if -short flag is provided
func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}
