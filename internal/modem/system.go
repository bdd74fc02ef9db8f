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
	"encoding/json"
)

// SystemStatus is the GetSystemStatus payload, answerable without a login.
type SystemStatus struct {
	ConnectionStatus int    `json:"ConnectionStatus"`
	SignalStrength   int    `json:"SignalStrength"`
	NetworkName      string `json:"NetworkName"`
	NetworkType      int    `json:"NetworkType"`
}

// SystemInfo is the GetSystemInfo payload, answerable without a login.
type SystemInfo struct {
	IMEI            string `json:"IMEI"`
	ICCID           string `json:"ICCID"`
	DeviceName      string `json:"DeviceName"`
	SoftwareVersion string `json:"SwVersion"`
	HardwareVersion string `json:"HwVersion"`
	MacAddress      string `json:"MacAddress"`
}

// LoginState is the GetLoginState payload. State is 1 while a session is
// active on the modem side.
type LoginState struct {
	State          int `json:"State"`
	LoginRemainNum int `json:"LoginRemainNum"`
}

func (m *Modem) SystemStatus(ctx context.Context) (SystemStatus, error) {
	return run[SystemStatus](ctx, m, "GetSystemStatus", nil)
}

func (m *Modem) SystemInfo(ctx context.Context) (SystemInfo, error) {
	return run[SystemInfo](ctx, m, "GetSystemInfo", nil)
}

func (m *Modem) LoginState(ctx context.Context) (LoginState, error) {
	return run[LoginState](ctx, m, "GetLoginState", nil)
}

// SimStatus returns the raw GetSimStatus payload. Its shape varies too much
// across variants to commit to a struct.
func (m *Modem) SimStatus(ctx context.Context) (json.RawMessage, error) {
	return m.Raw(ctx, "GetSimStatus", nil)
}

// USSDResult is the GetUSSDSendResult payload.
type USSDResult struct {
	UssdType    int    `json:"UssdType"`
	SendState   int    `json:"SendState"`
	UssdContent string `json:"UssdContent"`
}

// SendUSSD submits a USSD code such as "*222#". ussdType is 1 for a fresh
// request, 2 for a response within a session. The result arrives later via
// USSDResult.
func (m *Modem) SendUSSD(ctx context.Context, code string, ussdType int) error {
	_, err := m.Raw(ctx, "SendUSSD", map[string]any{
		"UssdContent": code,
		"UssdType":    ussdType,
	})

	return err
}

func (m *Modem) USSDResult(ctx context.Context) (USSDResult, error) {
	return run[USSDResult](ctx, m, "GetUSSDSendResult", nil)
}

// EndUSSD terminates an interactive USSD session.
func (m *Modem) EndUSSD(ctx context.Context) error {
	_, err := m.Raw(ctx, "SetUSSDEnd", nil)
	return err
}
