package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/charliek/logview/internal/api"
	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/query"
)

// ErrForbidden is returned when the server's authorization chain rejects the client.
var ErrForbidden = errors.New("access denied by server (403)")

// Client is an HTTP client for the log viewer API
type Client struct {
	baseURL    string
	prefix     string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client. prefix is the server's route prefix.
func NewClient(baseURL, prefix, token string) *Client {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = constants.DefaultRoutePrefix
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  prefix,
		token:   token,
		httpClient: &http.Client{
			Timeout: constants.DefaultRequestTimeout,
		},
	}
}

// GetKeys lists the provider keys
func (c *Client) GetKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := c.get(ctx, "/api/keys", nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// GetLogs fetches one page of logs
func (c *Client) GetLogs(ctx context.Context, params domain.LogParams) (*api.LogsResponse, error) {
	var resp api.LogsResponse
	if err := c.get(ctx, "/api/logs", query.Encode(params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, v any) error {
	target := c.baseURL + "/" + c.prefix + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode >= 400:
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.ErrorMessage != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.ErrorMessage)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// addAuthHeader adds the Authorization header if a token is available
func (c *Client) addAuthHeader(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
