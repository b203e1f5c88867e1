// Package client provides the HTTP client used for x402 resource requests.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client wraps http.Client with default headers and timing.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a default header to all requests.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHeaders adds multiple default headers to all requests.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// New creates a new Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // Default timeout
		},
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Request performs an HTTP request with the given method, URL, headers, and
// body. The body may be nil.
func (c *Client) Request(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	var req *http.Request
	var err error
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, bodyReader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.Do(req)
}

// Do performs the HTTP request with default headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" { // Don't override if already set
			req.Header.Set(k, v)
		}
	}

	return c.httpClient.Do(req)
}

// RequestResult contains timing and response information.
type RequestResult struct {
	Response  *http.Response
	Latency   time.Duration
	LatencyMs int64
}

// TimedRequest performs a timed HTTP request.
func (c *Client) TimedRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (*RequestResult, error) {
	start := time.Now()
	resp, err := c.Request(ctx, method, url, headers, body)
	latency := time.Since(start)

	if err != nil {
		return nil, err
	}

	return &RequestResult{
		Response:  resp,
		Latency:   latency,
		LatencyMs: latency.Milliseconds(),
	}, nil
}

// ParseRetryAfter extracts the Retry-After header value as a duration.
// Returns 0 if the header is not present or invalid.
func ParseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(retryAfter, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}

	return 0
}
