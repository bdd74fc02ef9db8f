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

// Package config reads and writes the jrdctl YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// Duration is a time.Duration that reads "30s" style strings from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}

		*d = Duration(parsed)

		return nil
	}

	var ns int64
	if err := node.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	*d = Duration(ns)

	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the persistent jrdctl configuration. The password is stored in
// the clear; the file is written with mode 0600 and users wanting better
// protection should use the keyring session backend and omit the password.
type Config struct {
	URL        string `yaml:"url"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	HeaderOnly bool   `yaml:"header_only,omitempty"`

	Timeout       Duration `yaml:"timeout,omitempty"`
	RetryInterval Duration `yaml:"retry_interval,omitempty"`
	RetryAttempts int      `yaml:"retry_attempts,omitempty"`

	SessionBackend string `yaml:"session_backend,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists. The URL is
// the factory default of the whole modem family.
func Default() Config {
	return Config{
		URL:            "http://192.168.1.1",
		Timeout:        Duration(10 * time.Second),
		RetryInterval:  Duration(500 * time.Millisecond),
		RetryAttempts:  3,
		SessionBackend: BackendFile,
		LogLevel:       "info",
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; a malformed file is an error, silently reverting a typo to
// defaults would be worse.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. Mode 0600 because the file may carry the modem password.
func Save(fs afero.Fs, path string, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}

func (c Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("url must not be empty")
	}

	switch c.SessionBackend {
	case "", BackendFile, BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts must not be negative")
	}

	return nil
}
