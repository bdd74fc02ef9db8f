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

package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/jrdwebapi/internal/jrd"
	"github.com/canonical/jrdwebapi/internal/transport"
)

func newClient(t *testing.T, srv *httptest.Server, attempts int) *transport.Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return transport.NewClient(u,
		transport.WithRetry(time.Millisecond, attempts),
		transport.WithTimeout(time.Second))
}

func TestDoSendsRequiredHeaders(t *testing.T) {
	var got http.Header

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()

			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, jrd.Path, r.URL.Path)

			_, _ = w.Write([]byte("{}"))
		}))
	defer srv.Close()

	headers := http.Header{}
	headers.Set(jrd.HeaderVerificationToken, "abc123")

	_, err := newClient(t, srv, 1).Do(context.Background(), headers, []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "XMLHttpRequest", got.Get("X-Requested-With"))
	assert.Equal(t, srv.URL, got.Get("Referer"))
	assert.Equal(t, "abc123", got.Get(jrd.HeaderVerificationToken))
}

func TestDoRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
	defer srv.Close()

	raw, err := newClient(t, srv, 5).Do(context.Background(), nil, []byte("{}"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.EqualValues(t, 4, calls.Load())
}

func TestDoRetryCeiling(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer srv.Close()

	_, err := newClient(t, srv, 3).Do(context.Background(), nil, []byte("{}"))

	assert.ErrorIs(t, err, jrd.ErrConnectivity)
	assert.EqualValues(t, 3, calls.Load())
}

func TestDoClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
	defer srv.Close()

	_, err := newClient(t, srv, 5).Do(context.Background(), nil, []byte("{}"))

	assert.ErrorIs(t, err, jrd.ErrConnectivity)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDoUnreachable(t *testing.T) {
	// Reserved TEST-NET-1 address, nothing listens there.
	u, err := url.Parse("http://192.0.2.1:1")
	require.NoError(t, err)

	c := transport.NewClient(u,
		transport.WithRetry(time.Millisecond, 2),
		transport.WithTimeout(50*time.Millisecond))

	_, err = c.Do(context.Background(), nil, []byte("{}"))
	assert.ErrorIs(t, err, jrd.ErrConnectivity)
}
