// Package apiclient talks to a running laneboard daemon over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"laneboard/internal/api"
)

// APIError is a non-2xx reply decoded from the daemon's error body.
type APIError struct {
	StatusCode  int
	Message     string
	LongMessage string
}

func (e *APIError) Error() string {
	if e.LongMessage != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, e.LongMessage)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Client provides HTTP access to the daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for baseURL, e.g. "http://127.0.0.1:7490".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// List returns every client, or the members of status when non-empty.
func (c *Client) List(ctx context.Context, status string) ([]api.Client, error) {
	path := "/api/v1/clients"
	if status != "" {
		path += "?" + url.Values{"status": []string{status}}.Encode()
	}
	var out []api.Client
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one client.
func (c *Client) Get(ctx context.Context, id int64) (*api.Client, error) {
	var out api.Client
	if err := c.do(ctx, http.MethodGet, "/api/v1/clients/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveRequest is the body of a move. Nil fields are omitted.
type MoveRequest struct {
	Status   *string `json:"status,omitempty"`
	Priority *int    `json:"priority,omitempty"`
}

// Move changes a client's lane and/or priority and returns the full board.
func (c *Client) Move(ctx context.Context, id int64, req MoveRequest) ([]api.Client, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode move: %w", err)
	}
	var out []api.Client
	if err := c.do(ctx, http.MethodPut, "/api/v1/clients/"+strconv.FormatInt(id, 10), payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health fetches /healthz. A degraded store is reported through the returned
// Health and an *APIError with status 503.
func (c *Client) Health(ctx context.Context) (*api.Health, error) {
	var out api.Health
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)
	var apiErr *APIError
	if err != nil && !(errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable) {
		return nil, err
	}
	return &out, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusServiceUnavailable && out != nil {
		_ = json.Unmarshal(data, out)
		return &APIError{StatusCode: resp.StatusCode, Message: "Service unavailable"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody api.ErrorResponse
		if json.Unmarshal(data, &errBody) == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
			apiErr.LongMessage = errBody.LongMessage
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
			apiErr.LongMessage = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
