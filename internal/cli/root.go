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

// Package cli implements the jrdctl command tree.
package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/canonical/jrdwebapi/internal/client"
	"github.com/canonical/jrdwebapi/internal/config"
	"github.com/canonical/jrdwebapi/internal/modem"
	"github.com/canonical/jrdwebapi/internal/pathutil"
	"github.com/canonical/jrdwebapi/internal/session"
	"github.com/canonical/jrdwebapi/internal/transport"
)

// commandTimeout bounds interactive commands so a dead modem fails the CLI
// promptly instead of hanging until ^C.
const commandTimeout = 2 * time.Minute

// rootOptions carries the persistent flag values shared by every command.
type rootOptions struct {
	configPath string
	url        string
	username   string
	password   string
	headerOnly bool
	logLevel   string
}

func RootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jrdctl",
		Short: "Control Alcatel and TCL LTE modems over their web API.",
		// Silence because we want to use our logger instead
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := opts.logLevel
			if level == "" {
				if cfg, err := opts.loadConfig(); err == nil {
					level = cfg.LogLevel
				}
			}

			if ll, err := zerolog.ParseLevel(level); err == nil && ll != zerolog.NoLevel {
				zerolog.SetGlobalLevel(ll)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path of the configuration file (default: the per-user config directory)")
	cmd.PersistentFlags().StringVarP(&opts.url, "url", "u", "",
		"Base URL of the modem, e.g. http://192.168.1.1")
	cmd.PersistentFlags().StringVar(&opts.username, "username", "",
		"Login username (default: admin)")
	cmd.PersistentFlags().StringVarP(&opts.password, "password", "p", "",
		"Login password")
	cmd.PersistentFlags().BoolVar(&opts.headerOnly, "header-only", false,
		"Treat the modem as a variant that needs no login")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: trace, debug, info, warn or error")

	cmd.AddCommand(runCmd(opts))
	cmd.AddCommand(loginCmd(opts))
	cmd.AddCommand(logoutCmd(opts))
	cmd.AddCommand(statusCmd(opts))
	cmd.AddCommand(smsCmd(opts))
	cmd.AddCommand(exportCmd(opts))
	cmd.AddCommand(configureCmd(opts))

	cmd.InitDefaultHelpCmd()

	return cmd
}

// loadConfig reads the configuration file and applies flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = pathutil.ConfigFile()
	}

	cfg, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return cfg, err
	}

	if o.url != "" {
		cfg.URL = o.url
	}

	if o.username != "" {
		cfg.Username = o.username
	}

	if o.password != "" {
		cfg.Password = o.password
	}

	if o.headerOnly {
		cfg.HeaderOnly = true
	}

	return cfg, nil
}

// newClient builds a modem client from the merged configuration.
func (o *rootOptions) newClient() (*client.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := sessionStore(cfg)
	if err != nil {
		return nil, err
	}

	options := []client.Option{
		client.WithCredentials(cfg.Username, cfg.Password),
		client.WithStore(store),
		client.WithTransportOptions(
			transport.WithTimeout(cfg.Timeout.Std()),
			transport.WithRetry(cfg.RetryInterval.Std(), cfg.RetryAttempts),
		),
	}

	if cfg.HeaderOnly {
		options = append(options, client.WithHeaderOnly())
	}

	return client.New(cfg.URL, options...)
}

func (o *rootOptions) newModem() (*modem.Modem, error) {
	c, err := o.newClient()
	if err != nil {
		return nil, err
	}

	return modem.New(c), nil
}

func sessionStore(cfg config.Config) (session.Store, error) {
	host, err := endpointHost(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch cfg.SessionBackend {
	case config.BackendKeyring:
		return session.NewKeyringStore(host), nil
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendFile, "":
		return session.NewFileStore(afero.NewOsFs(), pathutil.SessionPath(host)), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func endpointHost(endpoint string) (string, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid modem endpoint %q", endpoint)
	}

	return u.Host, nil
}
