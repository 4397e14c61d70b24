// Package adminapi is a client for the restaurant admin REST backend.
package adminapi

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

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every backend call
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx backend response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("admin api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("admin api: request failed with status %d", e.Status)
}

// ServerMessage returns the backend-provided description, if any
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Client talks to the admin backend
type Client struct {
	baseURL string
	token   func() string
	http    *http.Client
	logger  zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithToken sets a fixed bearer token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = func() string { return token }
	}
}

// WithTokenSource reads the bearer token on every request
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend at baseURL (e.g. https://host/api/v1)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   func() string { return "" },
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path with query parameters and returns the raw envelope
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Lister returns a listing.FetchFunc for the collection at path
func (c *Client) Lister(path string) listing.FetchFunc {
	return func(ctx context.Context, req listing.Request) (json.RawMessage, error) {
		return c.Get(ctx, path, req.Values())
	}
}

func (c *Client) send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, method, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("admin api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
			if apiErr.Message == "" {
				apiErr.Message = payload.Error
			}
		}
		return nil, apiErr
	}

	return data, nil
}

// unwrapData returns the "data" member of a response envelope, or the
// envelope itself when it has none
func unwrapData(raw json.RawMessage) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return raw
}
