package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the routing namespace for in-process dispatches.
	// It is never dialed.
	DefaultBaseURL = "http://deepeval-wrapper.local"

	// DefaultTimeout bounds a single dispatch when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// maxErrorBodyBytes bounds how much of an upstream error body is carried
	// into the normalized error message.
	maxErrorBodyBytes = 2048
)

// ClientConfig configures a bridge client.
type ClientConfig struct {
	// BaseURL is the routing namespace used to address the in-process
	// engine. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each dispatch. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Strategy names the resolution strategy that produced the handler.
	// Diagnostics only.
	Strategy string
}

// Client issues protocol-shaped requests against the resolved engine handler
// through the in-process Transport. A single client holds one shared
// http.Client and is safe for concurrent use; each dispatch carries its own
// request and response state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	strategy   string
	logger     *slog.Logger
}

// NewClient creates a client bound to the resolved handler.
func NewClient(handler http.Handler, cfg ClientConfig) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Transport: NewTransport(handler)},
		baseURL:    baseURL,
		timeout:    timeout,
		strategy:   cfg.Strategy,
		logger:     slog.Default().With("component", "bridge.client"),
	}
}

// Strategy returns the name of the resolution strategy that produced the
// underlying handler.
func (c *Client) Strategy() string {
	return c.strategy
}

// Timeout returns the per-dispatch timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Dispatch performs one in-process exchange with the engine. The body, when
// non-nil, is sent as JSON. Failures are normalized: a timeout yields
// KindTimeout, a transport fault KindTransport, a status >= 400 KindUpstream.
// A successful dispatch returns the protocol-shaped response.
func (c *Client) Dispatch(ctx context.Context, method, path string, body any) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, NewTransportError(method, path, fmt.Errorf("encode request body: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, NewTransportError(method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("dispatching to engine", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("engine dispatch timed out",
				"method", method,
				"path", path,
				"timeout", c.timeout.String(),
			)
			return nil, NewTimeoutError(method, path, err)
		}
		c.logger.Error("engine dispatch failed", "method", method, "path", path, "error", err)
		return nil, NewTransportError(method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(method, path, fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debug("engine responded",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"content_length", len(raw),
	)

	if resp.StatusCode >= 400 {
		detail := boundBody(raw)
		c.logger.Warn("engine returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"detail", detail,
		)
		return nil, NewUpstreamError(resp.StatusCode, detail)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// DispatchJSON performs a dispatch and decodes the response body as a JSON
// object. An empty body normalizes to an empty map.
func (c *Client) DispatchJSON(ctx context.Context, method, path string, body any) (map[string]any, error) {
	resp, err := c.Dispatch(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return resp.JSON()
}

// Evaluate runs a single evaluation through the engine.
func (c *Client) Evaluate(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.DispatchJSON(ctx, http.MethodPost, "/evaluate/", payload)
}

// AvailableMetrics returns the engine's evaluation metric catalog.
func (c *Client) AvailableMetrics(ctx context.Context) (map[string]any, error) {
	return c.DispatchJSON(ctx, http.MethodGet, "/metrics/", nil)
}

// MetricCategories returns the engine's metrics grouped by category.
func (c *Client) MetricCategories(ctx context.Context) (map[string]any, error) {
	return c.DispatchJSON(ctx, http.MethodGet, "/metrics/categories", nil)
}

// MetricInfo returns the engine's detail document for one metric.
func (c *Client) MetricInfo(ctx context.Context, metricType string) (map[string]any, error) {
	return c.DispatchJSON(ctx, http.MethodGet, "/metrics/"+metricType, nil)
}

// Ping probes the engine's own liveness endpoint.
func (c *Client) Ping(ctx context.Context) (map[string]any, error) {
	return c.DispatchJSON(ctx, http.MethodGet, "/health", nil)
}

// Close releases transport resources. Safe to call more than once.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// boundBody truncates an upstream error body to maxErrorBodyBytes, marking
// the truncation explicitly rather than dropping bytes silently.
func boundBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return fmt.Sprintf("%s... (truncated %d bytes)", raw[:maxErrorBodyBytes], len(raw)-maxErrorBodyBytes)
}
