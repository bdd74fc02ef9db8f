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

package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modemHandler answers GetSystemStatus and GetSystemInfo like a real modem.
func modemHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Jrd map[string]json.RawMessage `json:"jrd"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var command string
		for name := range req.Jrd {
			command = name
		}

		payloads := map[string]string{
			"GetSystemStatus": `{"ConnectionStatus":2,"SignalStrength":4,"NetworkName":"TestNet","NetworkType":8}`,
			"GetSystemInfo":   `{"IMEI":"860000000000001","DeviceName":"MW40V"}`,
		}

		payload, ok := payloads[command]
		if !ok {
			payload = `{}`
		}

		_, _ = w.Write([]byte(`{"jrd":{"` + command + `Res":` + payload + `}}`))
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Setenv("JRDCTL_CONFIG_DIR", t.TempDir())

	cmd := RootCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	srv := httptest.NewServer(modemHandler(t))
	defer srv.Close()

	out, err := execute(t, "run", "GetSystemStatus", "--url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, `"NetworkName": "TestNet"`)
}

func TestRunCommandRejectsBadParams(t *testing.T) {
	_, err := execute(t, "run", "SetNetworkSettings", "{not json", "--url", "http://192.0.2.1")
	assert.ErrorContains(t, err, "JSON")
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(modemHandler(t))
	defer srv.Close()

	out, err := execute(t, "status", "--url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "MW40V")
	assert.Contains(t, out, "TestNet (4G)")
	assert.Contains(t, out, "Connected")
}

func TestConfigureWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	_, err := execute(t, "configure",
		"--config", path,
		"--url", "http://10.0.0.138",
		"--session-backend", "keyring")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "url: http://10.0.0.138")
	assert.Contains(t, string(data), "session_backend: keyring")
}

func TestConfigureRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "configure", "--config", path, "--session-backend", "vault")
	assert.Error(t, err)
}
