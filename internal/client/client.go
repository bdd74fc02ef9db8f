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

// Package client dispatches commands to a single modem, layering session
// management on top of the raw transport: public commands go out with the
// anonymous verification key, restricted commands carry a session token that
// is obtained lazily and re-obtained once when the modem rejects it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/canonical/jrdwebapi/internal/auth"
	"github.com/canonical/jrdwebapi/internal/jrd"
	"github.com/canonical/jrdwebapi/internal/session"
	"github.com/canonical/jrdwebapi/internal/transport"
)

// Client is a connection to one modem. It is safe for concurrent use.
type Client struct {
	transport *transport.Client
	neg       *auth.Negotiator
}

// Result is the outcome of an asynchronous command.
type Result struct {
	Payload json.RawMessage
	Err     error
}

type Option func(*config)

type config struct {
	store         session.Store
	transportOpts []transport.Option
	username      string
	password      string
	headerOnly    bool
}

// WithStore selects where sessions are persisted. The default is an
// in-memory store scoped to this process.
func WithStore(store session.Store) Option {
	return func(c *config) { c.store = store }
}

// WithCredentials sets the login credentials. An empty username defaults
// to the firmware's admin account.
func WithCredentials(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// WithHeaderOnly pins the modem as a variant that accepts restricted
// commands with the verification key alone, skipping login entirely.
func WithHeaderOnly() Option {
	return func(c *config) { c.headerOnly = true }
}

// WithTransportOptions forwards options to the underlying transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *config) {
		c.transportOpts = append(c.transportOpts, opts...)
	}
}

// New returns a client for the modem at endpoint, a base URL such as
// "http://192.168.1.1". A bare host is accepted and assumed to be http.
func New(endpoint string, options ...Option) (*Client, error) {
	cfg := &config{store: session.NewMemoryStore()}
	for _, opt := range options {
		opt(cfg)
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	base, err := url.Parse(endpoint)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid modem endpoint %q", endpoint)
	}

	c := &Client{
		transport: transport.NewClient(base, cfg.transportOpts...),
	}

	c.neg = auth.NewNegotiator(publicRunner{c}, cfg.store)
	c.neg.SetCredentials(cfg.username, cfg.password)
	c.neg.SetHeaderOnly(cfg.headerOnly)

	return c, nil
}

// SetCredentials replaces the login credentials for future sessions.
func (c *Client) SetCredentials(username, password string) {
	c.neg.SetCredentials(username, password)
}

// Execute runs a single command and returns its raw success payload.
// Restricted commands are authenticated transparently; when the modem
// rejects a previously valid token the session is dropped and the command
// is retried once with a fresh login. Rejections of fresh tokens propagate,
// so a broken modem cannot trap the client in a login loop.
func (c *Client) Execute(ctx context.Context, command string, params any) (json.RawMessage, error) {
	if !RequiresAuth(command) {
		return c.run(ctx, command, params, "")
	}

	token, err := c.neg.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := c.run(ctx, command, params, token)
	if err == nil || !isAuthFailure(err) {
		return payload, err
	}

	log.Debug().Str("command", command).Msg("Session rejected, logging in again")

	if err := c.neg.Invalidate(); err != nil {
		return nil, err
	}

	token, err = c.neg.Token(ctx)
	if err != nil {
		return nil, err
	}

	return c.run(ctx, command, params, token)
}

// ExecuteAsync runs a command in the background and delivers its outcome on
// the returned channel. The channel carries exactly one Result and is then
// closed.
func (c *Client) ExecuteAsync(ctx context.Context, command string, params any) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)

		payload, err := c.Execute(ctx, command, params)
		ch <- Result{Payload: payload, Err: err}
	}()

	return ch
}

// Login establishes a session immediately instead of on first restricted
// command. Useful to validate credentials up front.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.neg.Token(ctx)
	return err
}

// Logout discards the current session locally. The firmware family has no
// server-side logout command; abandoning the token is how its own web UI
// ends a session.
func (c *Client) Logout() error {
	return c.neg.Invalidate()
}

// run issues one command over the transport. Every request carries the
// anonymous verification key; restricted calls additionally carry the
// session token.
func (c *Client) run(ctx context.Context, command string, params any, token string) (json.RawMessage, error) {
	body, err := jrd.EncodeRequest(command, params)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set(jrd.HeaderVerificationKey, jrd.VerificationKey)

	if token != "" {
		headers.Set(jrd.HeaderVerificationToken, token)
	}

	raw, err := c.transport.Do(ctx, headers, body)
	if err != nil {
		return nil, err
	}

	return jrd.DecodeResponse(command, raw)
}

func isAuthFailure(err error) bool {
	var merr *jrd.ModemError
	return errors.As(err, &merr) && merr.IsAuthFailure()
}

// publicRunner exposes the unauthenticated command path to the auth
// negotiator without an import cycle.
type publicRunner struct {
	c *Client
}

func (r publicRunner) RunPublic(ctx context.Context, command string, params any) (json.RawMessage, error) {
	return r.c.run(ctx, command, params, "")
}
