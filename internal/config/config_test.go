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

package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "/etc/jrdctl/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/jrdctl/config.yaml", []byte(`
url: http://10.0.0.138
password: hunter2
timeout: 30s
session_backend: keyring
log_level: debug
`), 0o600))

	cfg, err := Load(fs, "/etc/jrdctl/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.138", cfg.URL)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Std())
	assert.Equal(t, BackendKeyring, cfg.SessionBackend)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset fields keep their defaults.
	assert.Equal(t, 3, cfg.RetryAttempts)
}

func TestLoadMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/jrdctl/config.yaml",
		[]byte("url: [not a scalar"), 0o600))

	_, err := Load(fs, "/etc/jrdctl/config.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/jrdctl/config.yaml",
		[]byte("url: http://192.168.1.1\nsession_backend: vault"), 0o600))

	_, err := Load(fs, "/etc/jrdctl/config.yaml")
	assert.ErrorContains(t, err, "session backend")
}

func TestSaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/jrdctl/config.yaml"

	want := Default()
	want.URL = "http://modem.lan"
	want.Password = "hunter2"

	require.NoError(t, Save(fs, path, want))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 0o600, info.Mode().Perm())

	got, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRejectsEmptyURL(t *testing.T) {
	err := Save(afero.NewMemMapFs(), "/config.yaml", Config{})
	assert.ErrorContains(t, err, "url")
}
