package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize caps the size of a fetched document.
	maxBodySize = 8 << 20

	defaultAttempts = 3
	defaultDelay    = time.Second
)

// Client performs GET requests for remote manifests.
// It handles default headers, status mapping and retry logic.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRetry overrides the retry policy. attempts below 1 are treated as 1.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Client with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		headers:  headers,
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL and returns the response body.
// Transient failures are retried; the returned error is always unwrapped
// from [RetryableError].
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, rawURL)
		return err
	})
	if err != nil {
		var re *RetryableError
		if errors.As(err, &re) {
			return nil, re.Err
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "build request for %s", rawURL)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &RetryableError{Err: apperr.Wrap(apperr.ErrCodeTimeout, err, "fetch %s", rawURL)}
		}
		return nil, &RetryableError{Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "fetch %s", rawURL)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	if len(data) > maxBodySize {
		return nil, apperr.New(apperr.ErrCodeInvalidManifest, "%s: response exceeds %d bytes", rawURL, maxBodySize)
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return apperr.New(apperr.ErrCodeNotFound, "%s: status %d", rawURL, code)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: apperr.New(apperr.ErrCodeNetwork, "%s: status %d", rawURL, code)}
	default:
		return apperr.New(apperr.ErrCodeNetwork, "%s: status %d", rawURL, code)
	}
}
