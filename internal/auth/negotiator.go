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

// Package auth negotiates a session with a modem of unknown firmware
// variant by trying credential-protection schemes in a fixed priority
// order.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/canonical/jrdwebapi/internal/cipherutil"
	"github.com/canonical/jrdwebapi/internal/jrd"
	"github.com/canonical/jrdwebapi/internal/session"
)

// DefaultUsername is the only account the firmware family exposes.
const DefaultUsername = "admin"

// CommandRunner issues a single command with the anonymous verification
// key, without any auth orchestration. The command dispatcher implements it.
type CommandRunner interface {
	RunPublic(ctx context.Context, command string, params any) (json.RawMessage, error)
}

// Negotiator obtains and caches a session token. Concurrent callers racing
// for a login are collapsed into a single attempt so one login never
// clobbers another's persisted token.
type Negotiator struct {
	runner CommandRunner
	store  session.Store
	group  singleflight.Group

	mu         sync.Mutex
	username   string
	password   string
	headerOnly bool
	lastScheme *Scheme
	cached     *session.Session
}

// NewNegotiator returns a negotiator persisting sessions to store.
func NewNegotiator(runner CommandRunner, store session.Store) *Negotiator {
	return &Negotiator{
		runner:   runner,
		store:    store,
		username: DefaultUsername,
	}
}

// SetCredentials replaces the credentials used for future logins. It does
// not invalidate an existing session.
func (n *Negotiator) SetCredentials(username, password string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if username == "" {
		username = DefaultUsername
	}

	n.username = username
	n.password = password
}

// SetHeaderOnly pins the modem as a header-only variant: restricted
// commands are satisfied with the verification key and no login is ever
// attempted.
func (n *Negotiator) SetHeaderOnly(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.headerOnly = on
}

// Token returns the session token to attach to a restricted command,
// logging in if no valid session exists. It returns "" with no error for
// header-only modems.
func (n *Negotiator) Token(ctx context.Context) (string, error) {
	n.mu.Lock()
	headerOnly := n.headerOnly
	n.mu.Unlock()

	if headerOnly {
		return "", nil
	}

	if sess := n.session(); sess != nil {
		return sess.Token, nil
	}

	v, err, _ := n.group.Do("login", func() (any, error) {
		// Another caller may have completed the login while this one
		// waited on the flight group.
		if sess := n.session(); sess != nil {
			return sess.Token, nil
		}

		sess, err := n.login(ctx)
		if err != nil {
			return "", err
		}

		return sess.Token, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate drops the current session from memory and persistent storage.
// Called when the modem rejects a token, and by logout.
func (n *Negotiator) Invalidate() error {
	n.mu.Lock()
	n.cached = nil
	n.mu.Unlock()

	return n.store.Clear()
}

// session returns the current session, consulting persistent storage when
// nothing is cached in memory.
func (n *Negotiator) session() *session.Session {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cached != nil {
		return n.cached
	}

	sess, err := n.store.Load()
	if err != nil {
		log.Debug().Err(err).Msg("Session store unavailable, proceeding without")
		return nil
	}

	if sess == nil {
		return nil
	}

	if scheme, err := ParseScheme(sess.Scheme); err == nil {
		n.lastScheme = &scheme
	}

	n.cached = sess

	return sess
}

// login walks the scheme priority list until one succeeds. A scheme is
// only skipped over on an authentication-specific rejection; connectivity
// and protocol failures propagate immediately so "wrong scheme" is never
// confused with "modem unreachable". The winning scheme is remembered and
// tried first on subsequent logins.
func (n *Negotiator) login(ctx context.Context) (*session.Session, error) {
	n.mu.Lock()
	username, password := n.username, n.password
	remembered := n.lastScheme
	n.mu.Unlock()

	if password == "" {
		return nil, fmt.Errorf("%w: a password is required", jrd.ErrAuthenticationFailure)
	}

	candidates := probeOrder
	if remembered != nil {
		candidates = []Scheme{*remembered}

		for _, s := range probeOrder {
			if s != *remembered {
				candidates = append(candidates, s)
			}
		}
	}

	var lastErr error

	for _, scheme := range candidates {
		sess, err := n.loginScheme(ctx, scheme, username, password)
		if err == nil {
			n.commit(sess, scheme)
			return sess, nil
		}

		var merr *jrd.ModemError
		if errors.As(err, &merr) && merr.IsAuthFailure() {
			log.Debug().Stringer("scheme", scheme).Msg("Login scheme rejected, trying next")

			lastErr = err

			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w: all login schemes rejected, check the password (%v)",
		jrd.ErrAuthenticationFailure, lastErr)
}

func (n *Negotiator) loginScheme(ctx context.Context, scheme Scheme,
	username, password string) (*session.Session, error) {
	var keyset cipherutil.Keyset
	if scheme == SchemeSharedKey {
		keyset = cipherutil.SharedKeyset
	}

	wireUsername, wirePassword := keyset.Protect(username, password)

	payload, err := n.runner.RunPublic(ctx, "Login", map[string]string{
		"UserName": wireUsername,
		"Password": wirePassword,
	})
	if err != nil {
		return nil, err
	}

	result, err := jrd.DecodeLoginResult(payload)
	if err != nil {
		return nil, err
	}

	token := result.Token

	// Firmware returning param0/param1 expects the token header to carry
	// the AES-encrypted form.
	if result.Param0 != "" && result.Param1 != "" {
		token, err = cipherutil.EncryptToken(token, result.Param0, result.Param1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", jrd.ErrProtocolViolation, err)
		}
	}

	return &session.Session{
		Token:      token,
		Scheme:     scheme.String(),
		ObtainedAt: time.Now().UTC(),
	}, nil
}

func (n *Negotiator) commit(sess *session.Session, scheme Scheme) {
	n.mu.Lock()
	n.cached = sess
	n.lastScheme = &scheme
	n.mu.Unlock()

	if err := n.store.Save(sess); err != nil {
		// The in-memory session still serves this process.
		log.Warn().Err(err).Msg("Could not persist session")
	} else {
		log.Debug().Stringer("scheme", scheme).Msg("Session established")
	}
}
