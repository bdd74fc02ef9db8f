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

// WlanSettings returns the raw GetWlanSettings payload. The field set
// varies so widely across variants that callers are expected to read, edit
// and write back the raw document.
func (m *Modem) WlanSettings(ctx context.Context) (json.RawMessage, error) {
	return m.Raw(ctx, "GetWlanSettings", nil)
}

// SetWlanSettings writes WLAN settings. The firmware expects the full
// settings document, so callers should start from WlanSettings output.
func (m *Modem) SetWlanSettings(ctx context.Context, settings map[string]any) error {
	_, err := m.Raw(ctx, "SetWlanSettings", settings)
	return err
}

func (m *Modem) WlanState(ctx context.Context) (json.RawMessage, error) {
	return m.Raw(ctx, "GetWlanState", nil)
}
