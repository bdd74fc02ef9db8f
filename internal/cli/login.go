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
	"context"

	"github.com/spf13/cobra"
)

func loginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "login",
		Short:        "Establish and persist a session with the modem.",
		Example:      "jrdctl login -p <password>",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := c.Login(ctx); err != nil {
				return err
			}

			cmd.Println("Logged in.")

			return nil
		},
	}
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "logout",
		Short:        "Discard the persisted session.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}

			if err := c.Logout(); err != nil {
				return err
			}

			cmd.Println("Logged out.")

			return nil
		},
	}
}
