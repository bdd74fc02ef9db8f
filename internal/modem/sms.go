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

package modem

import (
	"context"
	"fmt"
	"time"
)

// smsTimeLayout is the timestamp format the firmware expects on SendSMS.
const smsTimeLayout = "2006-01-02 15:04:05"

// sendPollInterval paces GetSendSMSResult polling after a SendSMS.
const sendPollInterval = 500 * time.Millisecond

// SMSMessage is one entry of a GetSMSContentList page.
type SMSMessage struct {
	SMSId       int    `json:"SMSId"`
	PhoneNumber string `json:"PhoneNumber"`
	SMSContent  string `json:"SMSContent"`
	SMSTime     string `json:"SMSTime"`
	SMSType     int    `json:"SMSType"`
}

// SMSContentList is the GetSMSContentList payload.
type SMSContentList struct {
	Page       int          `json:"Page"`
	TotalPage  int          `json:"TotalPageCount"`
	SMSList    []SMSMessage `json:"SMSList"`
	TotalCount int          `json:"Count"`
}

// SMSStorageState is the GetSMSStorageState payload, answerable without a
// login.
type SMSStorageState struct {
	UnreadReport int `json:"UnreadReport"`
	LeftCount    int `json:"LeftCount"`
	MaxCount     int `json:"MaxCount"`
	UseCount     int `json:"UseCount"`
	UnreadSMS    int `json:"UnreadSMS"`
}

// SMSSendResult is the GetSendSMSResult payload.
type SMSSendResult struct {
	SendStatus int `json:"SendStatus"`
}

// SendSMS submits a message for delivery. The firmware queues it and
// reports progress through SMSSendResult; SendSMSAndWait wraps both.
func (m *Modem) SendSMS(ctx context.Context, phoneNumber, content string) error {
	_, err := m.Raw(ctx, "SendSMS", map[string]any{
		"SMSId":       -1,
		"SMSContent":  content,
		"PhoneNumber": []string{phoneNumber},
		"SMSTime":     time.Now().Format(smsTimeLayout),
	})

	return err
}

func (m *Modem) SMSSendResult(ctx context.Context) (SMSSendResult, error) {
	return run[SMSSendResult](ctx, m, "GetSendSMSResult", nil)
}

// SendSMSAndWait submits a message and polls the send status until the
// firmware reports a terminal state or ctx expires.
func (m *Modem) SendSMSAndWait(ctx context.Context, phoneNumber, content string) error {
	if err := m.SendSMS(ctx, phoneNumber, content); err != nil {
		return err
	}

	ticker := time.NewTicker(sendPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for SMS delivery: %w", ctx.Err())
		case <-ticker.C:
		}

		result, err := m.SMSSendResult(ctx)
		if err != nil {
			return err
		}

		switch {
		case result.SendStatus == SMSSendSuccess:
			return nil
		case result.SendStatus >= SMSSendFailSending:
			return fmt.Errorf("SMS send failed: %s", SMSSendStatusName(result.SendStatus))
		}
	}
}

// SMSContentList returns one page of the conversation with contactID.
func (m *Modem) SMSContentList(ctx context.Context, page, contactID int) (SMSContentList, error) {
	return run[SMSContentList](ctx, m, "GetSMSContentList", map[string]any{
		"Page":      page,
		"ContactId": contactID,
	})
}

// DeleteSMS removes one message, or a whole conversation when delFlag
// selects it.
func (m *Modem) DeleteSMS(ctx context.Context, delFlag, contactID, smsID int) error {
	_, err := m.Raw(ctx, "DeleteSMS", map[string]any{
		"DelFlag":   delFlag,
		"ContactId": contactID,
		"SMSId":     smsID,
	})

	return err
}

func (m *Modem) SMSStorageState(ctx context.Context) (SMSStorageState, error) {
	return run[SMSStorageState](ctx, m, "GetSMSStorageState", nil)
}
