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

// noSignal is the sentinel some firmware reports for signal metrics it
// cannot measure.
const noSignal = -999

// NetworkInfo is the GetNetworkInfo payload.
type NetworkInfo struct {
	NetworkName    string `json:"NetworkName"`
	NetworkType    int    `json:"NetworkType"`
	SignalStrength int    `json:"SignalStrength"`
	RSSI           int    `json:"RSSI"`
	RSRP           int    `json:"RSRP"`
	SINR           int    `json:"SINR"`
	RSRQ           int    `json:"RSRQ"`
}

// SignalQualityPercent estimates signal quality on a 0-100 scale from RSRP,
// falling back to RSSI on non-LTE firmware.
func (n NetworkInfo) SignalQualityPercent() int {
	if n.RSRP != 0 && n.RSRP != noSignal {
		// RSRP -140 dBm is 0%, -44 dBm is 100%.
		val := clamp(n.RSRP, -140, -44)
		return (val + 140) * 100 / 96
	}

	if n.RSSI != 0 && n.RSSI != noSignal {
		// RSSI -113 dBm is 0%, -51 dBm is 100%.
		val := clamp(n.RSSI, -113, -51)
		return (val + 113) * 100 / 62
	}

	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// ConnectionState is the GetConnectionState payload. IPv4Adrress and
// IPv6Adrress are spelled the way most firmware builds spell them; a few
// builds fixed the typo, so both spellings are accepted.
type ConnectionState struct {
	ConnectionStatus int    `json:"ConnectionStatus"`
	DlBytes          int64  `json:"DlBytes"`
	UlBytes          int64  `json:"UlBytes"`
	DlRate           int64  `json:"DlRate"`
	UlRate           int64  `json:"UlRate"`
	IPv4Adrress      string `json:"IPv4Adrress"`
	IPv6Adrress      string `json:"IPv6Adrress"`
}

func (s *ConnectionState) UnmarshalJSON(data []byte) error {
	type alias ConnectionState

	aux := struct {
		*alias
		IPv4Address string `json:"IPv4Address"`
		IPv6Address string `json:"IPv6Address"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if s.IPv4Adrress == "" {
		s.IPv4Adrress = aux.IPv4Address
	}

	if s.IPv6Adrress == "" {
		s.IPv6Adrress = aux.IPv6Address
	}

	return nil
}

func (m *Modem) NetworkInfo(ctx context.Context) (NetworkInfo, error) {
	return run[NetworkInfo](ctx, m, "GetNetworkInfo", nil)
}

func (m *Modem) ConnectionState(ctx context.Context) (ConnectionState, error) {
	return run[ConnectionState](ctx, m, "GetConnectionState", nil)
}

// Connect brings up the mobile data connection.
func (m *Modem) Connect(ctx context.Context) error {
	_, err := m.Raw(ctx, "Connect", nil)
	return err
}

// Disconnect tears down the mobile data connection. The firmware spells
// the command with a capital C.
func (m *Modem) Disconnect(ctx context.Context) error {
	_, err := m.Raw(ctx, "DisConnect", nil)
	return err
}

func (m *Modem) NetworkSettings(ctx context.Context) (json.RawMessage, error) {
	return m.Raw(ctx, "GetNetworkSettings", nil)
}

// SetNetworkSettings selects the radio mode (0/255 auto, 1=2G, 2=3G, 3=4G)
// and the operator selection mode (0 auto, 1 manual).
func (m *Modem) SetNetworkSettings(ctx context.Context, networkMode, selectionMode int) error {
	_, err := m.Raw(ctx, "SetNetworkSettings", map[string]any{
		"NetworkMode":      networkMode,
		"NetselectionMode": selectionMode,
	})

	return err
}
