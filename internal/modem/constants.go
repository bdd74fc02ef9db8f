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

import "fmt"

// networkTypeNames maps the NetworkType code to the label the modem's own
// web UI shows. Several codes collapse onto the same generation.
var networkTypeNames = map[int]string{
	0:  "No Service",
	1:  "2G",
	2:  "2G",
	3:  "3G",
	4:  "3G",
	5:  "3G",
	6:  "3G+",
	7:  "3G+",
	8:  "4G",
	9:  "4G+",
	10: "3G",
	11: "2G",
	16: "5G",
}

var connectionStatusNames = map[int]string{
	0: "Disconnected",
	1: "Connecting",
	2: "Connected",
	3: "Disconnecting",
}

var smsSendStatusNames = map[int]string{
	0: "None",
	1: "Sending",
	2: "Success",
	3: "Fail Sending",
	4: "Memory Full",
	5: "Failed",
}

// SMS send status codes reported by GetSendSMSResult.
const (
	SMSSendNone        = 0
	SMSSendSending     = 1
	SMSSendSuccess     = 2
	SMSSendFailSending = 3
	SMSSendMemoryFull  = 4
	SMSSendFailed      = 5
)

// NetworkTypeName returns a human-readable label for a NetworkType code.
func NetworkTypeName(code int) string {
	return lookup(networkTypeNames, code)
}

// ConnectionStatusName returns a human-readable label for a
// ConnectionStatus code.
func ConnectionStatusName(code int) string {
	return lookup(connectionStatusNames, code)
}

// SMSSendStatusName returns a human-readable label for a SendStatus code.
func SMSSendStatusName(code int) string {
	return lookup(smsSendStatusNames, code)
}

func lookup(names map[int]string, code int) string {
	if name, ok := names[code]; ok {
		return name
	}

	return fmt.Sprintf("Unknown (%d)", code)
}
