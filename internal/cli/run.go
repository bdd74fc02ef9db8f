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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run <command> [params-json]",
		Short:        "Run a raw modem command.",
		Example: `jrdctl run GetSystemStatus
  jrdctl run SetNetworkSettings '{"NetworkMode":3,"NetselectionMode":0}'`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params any
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("params must be valid JSON: %w", err)
				}
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			payload, err := c.Execute(ctx, args[0], params)
			if err != nil {
				return err
			}

			pretty, err := prettyJSON(payload)
			if err != nil {
				return err
			}

			cmd.Println(pretty)

			return nil
		},
	}

	return cmd
}

func prettyJSON(payload json.RawMessage) (string, error) {
	var buf any
	if err := json.Unmarshal(payload, &buf); err != nil {
		return "", fmt.Errorf("formatting payload: %w", err)
	}

	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting payload: %w", err)
	}

	return string(out), nil
}
