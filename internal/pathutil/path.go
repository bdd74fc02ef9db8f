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

package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "jrdctl"

// ConfigDir returns the per-user configuration directory. JRDCTL_CONFIG_DIR
// overrides it, which the tests and containerized deployments use.
func ConfigDir() string {
	if dir := os.Getenv("JRDCTL_CONFIG_DIR"); dir != "" {
		return filepath.Clean(dir)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		// No HOME: fall back to the working directory rather than failing,
		// the caller may never touch the config.
		return appDir
	}

	return filepath.Join(base, appDir)
}

// ConfigPath returns the configuration directory with the given relative
// path appended.
func ConfigPath(path string) string {
	return filepath.Join(ConfigDir(), filepath.Clean(path))
}

// ConfigFile returns the path of the YAML configuration file.
func ConfigFile() string {
	return ConfigPath("config.yaml")
}

// SessionPath returns the session file path for one modem host. The host is
// sanitized so "192.168.1.1:8080" and friends stay within the sessions
// directory.
func SessionPath(host string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-':
			return r
		default:
			return '_'
		}
	}, host)

	if sanitized == "" {
		sanitized = "default"
	}

	return ConfigPath(filepath.Join("sessions", sanitized+".json"))
}
