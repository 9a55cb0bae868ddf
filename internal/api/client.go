// Package api provides clients for the battery-health backend: the vehicle
// registry, the prediction model and the chat assistant. All calls are JSON
// over HTTP; the clients hold no state between calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josephgoksu/voltsight/internal/logger"
)

// DefaultBaseURL is the local backend address.
const DefaultBaseURL = "http://localhost:8000"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Config holds configuration shared by all backend clients.
type Config struct {
	// BaseURL is the backend root (e.g., "http://localhost:8000")
	BaseURL string

	// Timeout for HTTP requests. Zero leaves the transport defaults in place.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests (tests).
	HTTPClient *http.Client
}

// transport performs JSON requests against the backend.
type transport struct {
	baseURL string
	client  *http.Client
}

func newTransport(cfg Config) (*transport, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &transport{baseURL: base, client: client}, nil
}

// postJSON sends body to path and decodes a 2xx response into out.
func (t *transport) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, out)
}

// getJSON fetches path and decodes a 2xx response into out.
func (t *transport) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return t.do(req, out)
}

func (t *transport) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	logger.SetLastRequest(req.Method + " " + req.URL.Path)
	logger.Debugf("api: %s %s (request %s)", req.Method, req.URL.Path, reqID)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debugf("api: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		return newStatusError(req.Method, req.URL.Path, resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
