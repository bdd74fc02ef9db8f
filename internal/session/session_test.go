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

package session_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/jrdwebapi/internal/session"
)

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := &session.Session{
		Token:      "abc123",
		Scheme:     "plain",
		ObtainedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(want))

	sess, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, sess)

	require.NoError(t, store.Clear())

	sess, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/jrdctl/sessions/192.168.1.1.json"

	store := session.NewFileStore(fs, path)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := &session.Session{
		Token:      "abc123",
		Scheme:     "shared-key",
		ObtainedAt: time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(want))

	// A fresh store over the same file sees the record: this is the
	// cross-process persistence path.
	sess, err = session.NewFileStore(fs, path).Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, *want, *sess)
}

func TestFileStoreClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := session.NewFileStore(fs, "/sessions/modem.json")

	// Clearing an absent session is not an error.
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(&session.Session{Token: "abc123", Scheme: "plain"}))
	require.NoError(t, store.Clear())

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStoreCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/sessions/modem.json"

	require.NoError(t, afero.WriteFile(fs, path, []byte("not json"), 0o600))

	sess, err := session.NewFileStore(fs, path).Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStoreEmptyToken(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/sessions/modem.json"

	require.NoError(t, afero.WriteFile(fs, path,
		[]byte(`{"token":"","scheme":"plain"}`), 0o600))

	sess, err := session.NewFileStore(fs, path).Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFileStorePermissions(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/sessions/modem.json"

	store := session.NewFileStore(fs, path)
	require.NoError(t, store.Save(&session.Session{Token: "abc123", Scheme: "plain"}))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 0o600, info.Mode().Perm())
}
