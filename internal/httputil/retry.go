// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limit aware HTTP client used for
// metadata lookups.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff on a rate-limited response. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const maxRetryAfter = 2 * time.Minute

// Client wraps an http.Client and retries requests answered with HTTP 429
// or 503, backing off exponentially from RetryBaseDelay or waiting for the
// server's Retry-After when it gives one in seconds.
type Client struct {
	HTTP *http.Client

	// MaxRetries bounds the retries after the first attempt. Zero sends
	// each request once.
	MaxRetries int

	UserAgent string

	// Log receives one line per retry. Nil discards.
	Log io.Writer
}

// NewClient returns a Client with the given timeout and user agent.
func NewClient(timeout time.Duration, userAgent string, maxRetries int) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
		UserAgent:  userAgent,
	}
}

// Do sends req, retrying while the server signals overload. After the last
// retry the final rate-limited response is returned for the caller to
// inspect. A cancelled context during a wait returns ctx.Err().
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := max(c.MaxRetries, 0)
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if c.Log != nil {
			fmt.Fprintf(c.Log, "  rate limited (HTTP %d), retrying in %v (attempt %d/%d)\n",
				resp.StatusCode, wait, attempt+1, maxRetries)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetJSON fetches url and decodes a 200 response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: url}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// backoff doubles RetryBaseDelay per attempt unless retryAfter holds a
// positive number of seconds, which is honoured up to maxRetryAfter.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
