package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DatabaseClient reads and writes Realtime Database paths over REST.
type DatabaseClient struct {
	baseUrl    string
	httpClient *http.Client
}

func NewDatabaseClient(databaseURL string) *DatabaseClient {
	return &DatabaseClient{
		baseUrl:    strings.TrimRight(databaseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *DatabaseClient) endpoint(idToken, path string) string {
	u := c.baseUrl + "/" + strings.Trim(path, "/") + ".json"
	if idToken != "" {
		u += "?auth=" + url.QueryEscape(idToken)
	}
	return u
}

func (c *DatabaseClient) Get(ctx context.Context, idToken, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(idToken, path), nil)
	if err != nil {
		return nil, fmt.Errorf("build request (firebase db): %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s (firebase db): %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (firebase db): %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	return json.RawMessage(trimmed), nil
}

func (c *DatabaseClient) Set(ctx context.Context, idToken, path string, value any) error {
	return c.write(ctx, http.MethodPut, idToken, path, value)
}

// Update sends one PATCH for all children. The Realtime Database applies a
// multi-path update atomically.
func (c *DatabaseClient) Update(ctx context.Context, idToken, path string, children map[string]any) error {
	return c.write(ctx, http.MethodPatch, idToken, path, children)
}

func (c *DatabaseClient) write(ctx context.Context, method, idToken, path string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s (firebase db): %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(idToken, path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request (firebase db): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s (firebase db): %w", strings.ToLower(method), path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusError(resp.StatusCode, body)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var dbErr databaseError
	if err := json.Unmarshal(body, &dbErr); err == nil && dbErr.Error != "" {
		return fmt.Errorf("Firebase database error: %s", dbErr.Error)
	}
	return fmt.Errorf("error status (firebase db): %d", status)
}
