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

// Package modem provides typed wrappers over the raw command dispatcher for
// the commands this firmware family is known to implement. Result structs
// mirror the firmware's own field names, including its misspellings, so the
// wire format stays recognizable next to a packet capture.
package modem

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canonical/jrdwebapi/internal/jrd"
)

// Executor issues a single raw command. *client.Client implements it.
type Executor interface {
	Execute(ctx context.Context, command string, params any) (json.RawMessage, error)
}

// Modem wraps one modem connection with typed command accessors.
type Modem struct {
	exec Executor
}

func New(exec Executor) *Modem {
	return &Modem{exec: exec}
}

// Raw issues an arbitrary command, for anything without a typed wrapper.
func (m *Modem) Raw(ctx context.Context, command string, params any) (json.RawMessage, error) {
	return m.exec.Execute(ctx, command, params)
}

func run[T any](ctx context.Context, m *Modem, command string, params any) (T, error) {
	var out T

	payload, err := m.exec.Execute(ctx, command, params)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("%w: decoding %s payload: %v",
			jrd.ErrProtocolViolation, command, err)
	}

	return out, nil
}
