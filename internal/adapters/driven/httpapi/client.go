// Package httpapi is the JSON-over-HTTP transport shared by the AI provider
// adapters. It owns request encoding, provider error extraction and optional
// client-side rate limiting.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxResponseBytes bounds a response body; base64 images are the largest payload.
const maxResponseBytes = 32 << 20

// Config configures a Client.
type Config struct {
	// Provider names the API in error messages, e.g. "openai".
	Provider string

	// BaseURL is prefixed to every request path.
	BaseURL string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// Headers are sent with every request (auth, API version).
	Headers map[string]string

	// Limiter throttles requests when set. Callers block in Wait until a
	// token is available or their context is done.
	Limiter *rate.Limiter
}

// Client sends JSON requests to a provider API.
type Client struct {
	provider string
	baseURL  string
	headers  map[string]string
	limiter  *rate.Limiter
	http     *http.Client
}

// New creates a client from cfg.
func New(cfg Config) *Client {
	return &Client{
		provider: cfg.Provider,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		headers:  cfg.Headers,
		limiter:  cfg.Limiter,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// PostJSON sends in as a JSON body to path and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.provider, err)
	}
	data, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// Check issues a GET to path and succeeds on any 2xx status.
// Used to validate credentials without running inference.
func (c *Client) Check(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodGet, path, http.NoBody)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limit: %w", c.provider, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	return data, nil
}

// errorMessage extracts the provider's error text. OpenAI and Anthropic use
// {"error": {"message": ...}}, Ollama uses {"error": "..."}.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}

	return strings.TrimSpace(string(body))
}
