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
	"strconv"

	"github.com/spf13/cobra"
)

func smsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sms",
		Short:        "Send and manage SMS messages.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(smsSendCmd(opts))
	cmd.AddCommand(smsListCmd(opts))
	cmd.AddCommand(smsDeleteCmd(opts))

	return cmd
}

func smsSendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "send <phone-number> <message>",
		Short:        "Send an SMS and wait for delivery confirmation.",
		Example:      `jrdctl sms send +491701234567 "on my way" -p <password>`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.newModem()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := m.SendSMSAndWait(ctx, args[0], args[1]); err != nil {
				return err
			}

			cmd.Println("Sent.")

			return nil
		},
	}
}

func smsListCmd(opts *rootOptions) *cobra.Command {
	var (
		page      int
		contactID int
	)

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List SMS messages of one conversation.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.newModem()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			list, err := m.SMSContentList(ctx, page, contactID)
			if err != nil {
				return err
			}

			for _, msg := range list.SMSList {
				cmd.Printf("[%d] %s %s\n    %s\n",
					msg.SMSId, msg.SMSTime, msg.PhoneNumber, msg.SMSContent)
			}

			if list.TotalPage > 1 {
				cmd.Printf("Page %d of %d\n", page, list.TotalPage)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	cmd.Flags().IntVar(&contactID, "contact", 1, "Conversation (contact) id")

	return cmd
}

func smsDeleteCmd(opts *rootOptions) *cobra.Command {
	var contactID int

	cmd := &cobra.Command{
		Use:          "delete <sms-id>",
		Short:        "Delete one SMS message.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			smsID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("sms-id must be a number: %w", err)
			}

			m, err := opts.newModem()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := m.DeleteSMS(ctx, 0, contactID, smsID); err != nil {
				return err
			}

			cmd.Println("Deleted.")

			return nil
		},
	}

	cmd.Flags().IntVar(&contactID, "contact", 1, "Conversation (contact) id")

	return cmd
}
