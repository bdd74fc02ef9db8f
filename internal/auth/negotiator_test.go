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

package auth

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/canonical/jrdwebapi/internal/cipherutil"
	"github.com/canonical/jrdwebapi/internal/jrd"
	"github.com/canonical/jrdwebapi/internal/session"
)

type loginCall struct {
	Username string
	Password string
}

// fakeRunner scripts Login responses call by call.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []loginCall
	respond func(call int, params loginCall) (json.RawMessage, error)
	delay   time.Duration
}

func (f *fakeRunner) RunPublic(_ context.Context, command string, params any) (json.RawMessage, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	p, _ := params.(map[string]string)
	call := loginCall{Username: p["UserName"], Password: p["Password"]}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	n := len(f.calls)
	f.mu.Unlock()

	return f.respond(n, call)
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func tokenPayload(token string) (json.RawMessage, error) {
	return json.RawMessage(`{"token":"` + token + `"}`), nil
}

func authRejected() (json.RawMessage, error) {
	return nil, &jrd.ModemError{Code: -32699, Msg: "Authentication failed"}
}

func TestTokenPlainFirst(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			return tokenPayload("abc123")
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "admin")

	token, err := n.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, loginCall{Username: "admin", Password: "admin"}, runner.calls[0])
}

func TestTokenSchemeFallbackOrder(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			if call == 1 {
				return authRejected()
			}

			return tokenPayload("abc123")
		},
	}

	store := session.NewMemoryStore()
	n := NewNegotiator(runner, store)
	n.SetCredentials("admin", "s3cr3t")

	token, err := n.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Plain must be attempted (and rejected) before the shared-key scheme.
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "admin", runner.calls[0].Username)
	assert.Equal(t, "s3cr3t", runner.calls[0].Password)
	assert.Equal(t, cipherutil.Obfuscate("admin"), runner.calls[1].Username)
	assert.Equal(t, cipherutil.Obfuscate("s3cr3t"), runner.calls[1].Password)

	// The winning scheme is persisted with the session.
	sess, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, SchemeSharedKey.String(), sess.Scheme)
}

func TestTokenRemembersWinningScheme(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			if call == 1 {
				return authRejected()
			}

			return tokenPayload("abc123")
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "admin")

	_, err := n.Token(context.Background())
	require.NoError(t, err)
	require.NoError(t, n.Invalidate())

	// The next login goes straight to the shared-key scheme.
	_, err = n.Token(context.Background())
	require.NoError(t, err)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, cipherutil.Obfuscate("admin"), runner.calls[2].Username)
}

func TestTokenConnectivityErrorPropagates(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			return nil, jrd.ErrConnectivity
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "admin")

	_, err := n.Token(context.Background())
	assert.ErrorIs(t, err, jrd.ErrConnectivity)

	// An unreachable modem must not be mistaken for a wrong scheme.
	assert.Equal(t, 1, runner.callCount())
}

func TestTokenAllSchemesRejected(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			return authRejected()
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "wrong")

	_, err := n.Token(context.Background())
	assert.ErrorIs(t, err, jrd.ErrAuthenticationFailure)
	assert.Equal(t, 2, runner.callCount())
}

func TestTokenWithoutPassword(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			t.Fatal("no login must be attempted without a password")
			return nil, nil
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())

	_, err := n.Token(context.Background())
	assert.ErrorIs(t, err, jrd.ErrAuthenticationFailure)
}

func TestTokenHeaderOnly(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			t.Fatal("header-only modems never log in")
			return nil, nil
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetHeaderOnly(true)

	token, err := n.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenPersistedSessionShortCircuits(t *testing.T) {
	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			t.Fatal("a persisted session must not trigger a login")
			return nil, nil
		},
	}

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(&session.Session{
		Token:      "abc123",
		Scheme:     "plain",
		ObtainedAt: time.Now().UTC(),
	}))

	n := NewNegotiator(runner, store)
	n.SetCredentials("admin", "admin")

	token, err := n.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestTokenEncryptedTokenForm(t *testing.T) {
	const (
		key = "0123456789abcdef"
		iv  = "fedcba9876543210"
	)

	runner := &fakeRunner{
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			return json.RawMessage(
				`{"token":"abc123","param0":"` + key + `","param1":"` + iv + `"}`), nil
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "admin")

	token, err := n.Token(context.Background())
	require.NoError(t, err)

	want, err := cipherutil.EncryptToken("abc123", key, iv)
	require.NoError(t, err)
	assert.Equal(t, want, token)
}

func TestTokenConcurrentLoginsCollapse(t *testing.T) {
	runner := &fakeRunner{
		delay: 20 * time.Millisecond,
		respond: func(call int, params loginCall) (json.RawMessage, error) {
			return tokenPayload("abc123")
		},
	}

	n := NewNegotiator(runner, session.NewMemoryStore())
	n.SetCredentials("admin", "admin")

	var eg errgroup.Group

	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			_, err := n.Token(context.Background())
			return err
		})
	}

	require.NoError(t, eg.Wait())
	assert.Equal(t, 1, runner.callCount())
}
