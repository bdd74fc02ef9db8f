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

import "context"

// BasicStatus is a snapshot built entirely from public commands, so it is
// available without a password.
type BasicStatus struct {
	IMEI             string
	ICCID            string
	Device           string
	ConnectionStatus string
	NetworkType      string
	NetworkName      string
	SignalStrength   int
}

// ExtendedStatus adds the traffic counters and radio metrics only
// restricted commands expose.
type ExtendedStatus struct {
	BasicStatus

	DlBytes  int64
	UlBytes  int64
	DlRate   int64
	UlRate   int64
	IPv4Addr string
	IPv6Addr string
	RSSI     int
	RSRP     int
	SINR     int
	RSRQ     int
}

// BasicStatus combines GetSystemInfo and GetSystemStatus into one
// public-only snapshot.
func (m *Modem) BasicStatus(ctx context.Context) (BasicStatus, error) {
	info, err := m.SystemInfo(ctx)
	if err != nil {
		return BasicStatus{}, err
	}

	status, err := m.SystemStatus(ctx)
	if err != nil {
		return BasicStatus{}, err
	}

	return BasicStatus{
		IMEI:             info.IMEI,
		ICCID:            info.ICCID,
		Device:           info.DeviceName,
		ConnectionStatus: ConnectionStatusName(status.ConnectionStatus),
		NetworkType:      NetworkTypeName(status.NetworkType),
		NetworkName:      status.NetworkName,
		SignalStrength:   status.SignalStrength,
	}, nil
}

// ExtendedStatus combines GetSystemInfo, GetNetworkInfo and
// GetConnectionState into a full snapshot. It requires a session.
func (m *Modem) ExtendedStatus(ctx context.Context) (ExtendedStatus, error) {
	info, err := m.SystemInfo(ctx)
	if err != nil {
		return ExtendedStatus{}, err
	}

	network, err := m.NetworkInfo(ctx)
	if err != nil {
		return ExtendedStatus{}, err
	}

	conn, err := m.ConnectionState(ctx)
	if err != nil {
		return ExtendedStatus{}, err
	}

	return ExtendedStatus{
		BasicStatus: BasicStatus{
			IMEI:             info.IMEI,
			ICCID:            info.ICCID,
			Device:           info.DeviceName,
			ConnectionStatus: ConnectionStatusName(conn.ConnectionStatus),
			NetworkType:      NetworkTypeName(network.NetworkType),
			NetworkName:      network.NetworkName,
			SignalStrength:   network.SignalStrength,
		},
		DlBytes:  conn.DlBytes,
		UlBytes:  conn.UlBytes,
		DlRate:   conn.DlRate,
		UlRate:   conn.UlRate,
		IPv4Addr: conn.IPv4Adrress,
		IPv6Addr: conn.IPv6Adrress,
		RSSI:     network.RSSI,
		RSRP:     network.RSRP,
		SINR:     network.SINR,
		RSRQ:     network.RSRQ,
	}, nil
}
