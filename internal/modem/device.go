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

// ConnectedDevice is one entry of the GetConnectedDeviceList payload.
type ConnectedDevice struct {
	DeviceName  string `json:"DeviceName"`
	MacAddress  string `json:"MacAddress"`
	IPAddress   string `json:"IPAddress"`
	ConnectMode int    `json:"ConnectMode"`
}

type connectedDeviceList struct {
	ConnectedList []ConnectedDevice `json:"ConnectedList"`
}

type blockDeviceList struct {
	BlockList []ConnectedDevice `json:"BlockList"`
}

// ConnectedDevices lists the clients currently attached to the modem's LAN
// and WLAN.
func (m *Modem) ConnectedDevices(ctx context.Context) ([]ConnectedDevice, error) {
	list, err := run[connectedDeviceList](ctx, m, "GetConnectedDeviceList", nil)
	if err != nil {
		return nil, err
	}

	return list.ConnectedList, nil
}

// BlockedDevices lists the clients banned from associating.
func (m *Modem) BlockedDevices(ctx context.Context) ([]ConnectedDevice, error) {
	list, err := run[blockDeviceList](ctx, m, "GetBlockDeviceList", nil)
	if err != nil {
		return nil, err
	}

	return list.BlockList, nil
}

// BlockDevice bans a client by MAC address.
func (m *Modem) BlockDevice(ctx context.Context, deviceName, macAddress string) error {
	_, err := m.Raw(ctx, "SetConnectedDeviceBlock", map[string]any{
		"DeviceName": deviceName,
		"MacAddress": macAddress,
	})

	return err
}

// UnblockDevice lifts a ban set by BlockDevice.
func (m *Modem) UnblockDevice(ctx context.Context, deviceName, macAddress string) error {
	_, err := m.Raw(ctx, "SetDeviceUnlock", map[string]any{
		"DeviceName": deviceName,
		"MacAddress": macAddress,
	})

	return err
}

func (m *Modem) LanSettings(ctx context.Context) (json.RawMessage, error) {
	return m.Raw(ctx, "GetLanSettings", nil)
}
