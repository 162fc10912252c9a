// Package jina provides a client for the Jina AI Reader, used as a remote
// headless renderer.
package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Return formats accepted by the Reader's X-Return-Format header.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Client defines the Jina AI Reader operations.
type Client interface {
	// Read renders targetURL remotely and returns its content in the requested format.
	Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error)
}

// ReadResponse is the parsed Reader response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the rendered page.
type ReadData struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	HTML    string `json:"html"`
	Usage   struct {
		Tokens int `json:"tokens"`
	} `json:"usage"`
}

// Body returns HTML when the Reader supplied it, else Content.
func (d ReadData) Body() string {
	if d.HTML != "" {
		return d.HTML
	}
	return d.Content
}

// ReadOption configures a single Read call.
type ReadOption func(*readOpts)

type readOpts struct {
	format  string
	timeout time.Duration
}

// WithFormat selects the X-Return-Format. Default is html.
func WithFormat(f string) ReadOption {
	return func(o *readOpts) { o.format = f }
}

// WithTimeout asks the Reader to wait up to d for the page to settle.
func WithTimeout(d time.Duration) ReadOption {
	return func(o *readOpts) { o.timeout = d }
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithMaxAttempts sets the number of tries for retryable statuses.
func WithMaxAttempts(n int) Option {
	return func(c *httpClient) { c.maxAttempts = n }
}

type httpClient struct {
	apiKey      string
	baseURL     string
	maxAttempts int
	http        *http.Client
}

// NewClient creates a Reader client. apiKey may be empty for the free tier.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:      apiKey,
		baseURL:     "https://r.jina.ai",
		maxAttempts: 3,
		http:        &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	}
	return false
}

func (c *httpClient) do(ctx context.Context, req *http.Request) ([]byte, int, error) {
	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.http.Do(req.Clone(ctx))
		var body []byte
		status := 0
		if err == nil {
			status = resp.StatusCode
			body, err = io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if err != nil {
				return nil, status, eris.Wrap(err, "jina: read response body")
			}
			if !retryable(status) {
				return body, status, nil
			}
			lastErr = eris.Errorf("jina: status %d", status)
		} else {
			lastErr = err
		}
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, 0, lastErr
}

func (c *httpClient) Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error) {
	ro := readOpts{format: FormatHTML}
	for _, opt := range opts {
		opt(&ro)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, targetURL), nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Return-Format", ro.format)
	if ro.timeout > 0 {
		req.Header.Set("X-Timeout", fmt.Sprintf("%d", int(ro.timeout.Seconds())))
	}

	body, status, err := c.do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: request failed")
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("jina: unexpected status %d: %s", status, string(body))
	}

	var out ReadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal response")
	}
	return &out, nil
}
