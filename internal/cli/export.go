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
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/canonical/jrdwebapi/internal/exporter"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		listen   string
		extended bool
	)

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Serve modem status as Prometheus metrics.",
		Example:      "jrdctl export --listen :9143 --extended -p <password>",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.newModem()
			if err != nil {
				return err
			}

			var options []exporter.Option
			if extended {
				options = append(options, exporter.WithExtended())
			}

			collector := exporter.NewCollector(m, options...)

			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())

			server := &http.Server{
				Addr:              listen,
				Handler:           mux,
				ReadHeaderTimeout: 60 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				_ = server.Shutdown(shutdownCtx)
			}()

			log.Info().Str("listen", listen).Msg("Serving metrics")

			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", ":9143",
		"Address to serve /metrics on")
	cmd.Flags().BoolVarP(&extended, "extended", "e", false,
		"Include traffic counters and radio metrics (needs a password)")

	return cmd
}
