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
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/canonical/jrdwebapi/internal/config"
	"github.com/canonical/jrdwebapi/internal/pathutil"
)

func configureCmd(opts *rootOptions) *cobra.Command {
	var (
		backend  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          "configure",
		Short:        "Write the configuration file from the given flags.",
		Example:      "jrdctl configure --url http://192.168.1.1 -p <password> --session-backend keyring",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = pathutil.ConfigFile()
			}

			fs := afero.NewOsFs()

			// Start from whatever is already configured so a partial
			// configure call does not wipe the rest.
			cfg, err := config.Load(fs, path)
			if err != nil {
				return err
			}

			if opts.url != "" {
				cfg.URL = opts.url
			}

			if opts.username != "" {
				cfg.Username = opts.username
			}

			if opts.password != "" {
				cfg.Password = opts.password
			}

			if opts.headerOnly {
				cfg.HeaderOnly = true
			}

			if backend != "" {
				cfg.SessionBackend = backend
			}

			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			if err := config.Save(fs, path, cfg); err != nil {
				return err
			}

			cmd.Printf("Wrote %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "session-backend", "",
		"Where to persist sessions: file, keyring or memory")
	cmd.Flags().StringVar(&logLevel, "log-level", "",
		"Default log level: trace, debug, info, warn or error")

	return cmd
}
