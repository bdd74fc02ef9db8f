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
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/canonical/jrdwebapi/internal/modem"
)

func statusCmd(opts *rootOptions) *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show modem status.",
		Example:      "jrdctl status --extended -p <password>",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.newModem()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if extended {
				status, err := m.ExtendedStatus(ctx)
				if err != nil {
					return err
				}

				cmd.Println(formatExtendedStatus(status))

				return nil
			}

			status, err := m.BasicStatus(ctx)
			if err != nil {
				return err
			}

			cmd.Println(formatBasicStatus(status))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&extended, "extended", "e", false,
		"Include traffic counters and radio metrics (needs a password)")

	return cmd
}

func formatBasicStatus(s modem.BasicStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device:      %s\n", s.Device)
	fmt.Fprintf(&b, "IMEI:        %s\n", s.IMEI)
	fmt.Fprintf(&b, "ICCID:       %s\n", s.ICCID)
	fmt.Fprintf(&b, "Network:     %s (%s)\n", s.NetworkName, s.NetworkType)
	fmt.Fprintf(&b, "Connection:  %s\n", s.ConnectionStatus)
	fmt.Fprintf(&b, "Signal:      %d/5", s.SignalStrength)

	return b.String()
}

func formatExtendedStatus(s modem.ExtendedStatus) string {
	var b strings.Builder

	b.WriteString(formatBasicStatus(s.BasicStatus))
	b.WriteString("\n")

	if s.IPv4Addr != "" {
		fmt.Fprintf(&b, "IPv4:        %s\n", s.IPv4Addr)
	}

	if s.IPv6Addr != "" {
		fmt.Fprintf(&b, "IPv6:        %s\n", s.IPv6Addr)
	}

	fmt.Fprintf(&b, "Downloaded:  %s (%s/s)\n",
		humanize.Bytes(uint64(s.DlBytes)), humanize.Bytes(uint64(s.DlRate)))
	fmt.Fprintf(&b, "Uploaded:    %s (%s/s)\n",
		humanize.Bytes(uint64(s.UlBytes)), humanize.Bytes(uint64(s.UlRate)))

	metrics := []struct {
		name  string
		value int
		unit  string
	}{
		{"RSSI", s.RSSI, "dBm"},
		{"RSRP", s.RSRP, "dBm"},
		{"SINR", s.SINR, "dB"},
		{"RSRQ", s.RSRQ, "dB"},
	}

	for _, m := range metrics {
		if m.value != 0 && m.value != -999 {
			fmt.Fprintf(&b, "%s:        %d %s\n", m.name, m.value, m.unit)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
