// Copyright (c) 2025-2026 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package transport issues HTTP requests to the modem's command endpoint.
// Rate-limit and server-side errors are retried with exponential backoff;
// the modems run a small embedded HTTP server that must not be hammered.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/canonical/jrdwebapi/internal/jrd"
)

const (
	// DefaultTimeout bounds a single attempt, not the whole retry loop.
	DefaultTimeout = 10 * time.Second

	// DefaultRetryBase is the initial backoff interval between attempts.
	DefaultRetryBase = 500 * time.Millisecond

	// DefaultAttempts is the total attempt ceiling including the first try.
	DefaultAttempts = 3
)

// Client posts command bodies to a single modem endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   *url.URL
	apiURL     string
	timeout    time.Duration
	retryBase  time.Duration
	attempts   int
}

type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the backoff base interval and the total attempt ceiling.
func WithRetry(base time.Duration, attempts int) Option {
	return func(c *Client) {
		c.retryBase = base
		c.attempts = attempts
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient returns a transport for the modem at the given base URL.
func NewClient(endpoint *url.URL, options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		endpoint:   endpoint,
		apiURL:     endpoint.JoinPath(jrd.Path).String(),
		timeout:    DefaultTimeout,
		retryBase:  DefaultRetryBase,
		attempts:   DefaultAttempts,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.attempts < 1 {
		c.attempts = 1
	}

	return c
}

// Do posts body to the command endpoint with the given extra headers and
// returns the raw response body. Transient statuses (429 and 5xx) are
// retried with exponential backoff up to the attempt ceiling; everything
// else fails immediately.
func (c *Client) Do(ctx context.Context, headers http.Header, body []byte) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryBase

	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.attempts-1)), ctx)

	return backoff.RetryWithData(func() ([]byte, error) {
		return c.attempt(ctx, headers, body)
	}, policy)
}

func (c *Client) attempt(ctx context.Context, headers http.Header, body []byte) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodPost, c.apiURL,
		bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	// The firmware rejects requests without the browser-shaped headers its
	// web UI sends.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.endpoint.String())

	for name, values := range headers {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures are retried up to the ceiling.
		return nil, fmt.Errorf("%w: %v", jrd.ErrConnectivity, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if retryable(resp.StatusCode) {
		log.Debug().Int("status", resp.StatusCode).Msg("Transient modem response, backing off")

		return nil, fmt.Errorf("%w: HTTP %d", jrd.ErrConnectivity, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(
			fmt.Errorf("%w: HTTP %d", jrd.ErrConnectivity, resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(
			fmt.Errorf("%w: reading response: %v", jrd.ErrConnectivity, err))
	}

	return raw, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
