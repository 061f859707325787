// Package httpds implements a small HTTP datasource with retry and
// exponential backoff. The fetch collaborator uses it to download roster
// exports; retries live here, deliberately outside the ingestion core.
package httpds

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// Config configures the HTTP datasource client. Zero values get defaults:
// Timeout 30s, MaxRetries 3, InitialBackoff 200ms, MaxBackoff 5s.
type Config struct {
	// Timeout is the per-request timeout at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int

	// InitialBackoff is the base backoff for the first retry; each retry
	// doubles it up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// BaseHeaders are added to every request (e.g. an Authorization header
	// for a drive export endpoint). Per-request headers take precedence.
	BaseHeaders http.Header

	// Transport is an optional custom RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff behavior.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	baseHeaders    http.Header

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	hdr := http.Header{}
	for k, vs := range cfg.BaseHeaders {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		baseHeaders:    hdr,
		sleep:          time.Sleep,
	}
}

// Do sends an HTTP request, retrying transient failures with backoff. The
// body is a byte slice so it can be re-sent on retry. The returned response
// has a non-nil Body which the caller must close.
func (c *Client) Do(
	ctx context.Context,
	method, url string,
	body []byte,
	headers http.Header,
) (*http.Response, error) {
	if method == "" {
		return nil, fmt.Errorf("httpds: method must not be empty")
	}
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}

		for k, vs := range c.baseHeaders {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network or transport-level failure: retryable.
			lastErr = err
		} else {
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("httpds: retryable status %d from %s %s", resp.StatusCode, method, url)
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}

		backoff := backoffDuration(c.initialBackoff, attempt, c.maxBackoff)
		if err := sleepWithContext(ctx, c.sleep, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Get is a convenience wrapper over Do for HTTP GET. The caller must close
// the response body.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

// isRetryableStatus reports whether a status code should trigger a retry.
// Conservative: 5xx and 429 are transient, everything else is final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff for the given 0-based
// retry index, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

// sleepWithContext waits for d via the injected sleep, skipping the wait
// when ctx is already canceled. Cancellation mid-sleep is picked up at the
// top of the next attempt.
func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		sleep(d)
	}
	return ctx.Err()
}
