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

package jrd

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes of the client. Concrete errors wrap one of these so
// callers can classify with errors.Is without losing the modem's own
// code and message.
var (
	// ErrConnectivity marks transport-level failures: unreachable modem,
	// timeout, or the retry ceiling being exceeded.
	ErrConnectivity = errors.New("modem unreachable")

	// ErrProtocolViolation marks a response that is not a valid envelope.
	ErrProtocolViolation = errors.New("malformed modem response")

	// ErrAuthenticationFailure marks exhausted login schemes or a restricted
	// command rejected twice.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrCommandRejected marks a semantic rejection reported by the modem.
	ErrCommandRejected = errors.New("command rejected by modem")
)

// authFailureCodes is the set of error codes the firmware family is known to
// return for authentication failures. The JSON-RPC-shaped firmware dialect
// uses -32699; other builds are identified by message (see IsAuthFailure).
var authFailureCodes = map[int]struct{}{
	-32699: {},
}

// ModemError is an error reported inside a well-formed envelope. The
// original code and message are preserved because they are the primary
// diagnostic signal for this partially documented protocol.
type ModemError struct {
	Code int
	Msg  string
}

func (e *ModemError) Error() string {
	return fmt.Sprintf("modem error %d: %s", e.Code, e.Msg)
}

// Unwrap classifies the error as an authentication failure or a command
// rejection, so errors.Is works against the failure classes above.
func (e *ModemError) Unwrap() error {
	if e.IsAuthFailure() {
		return ErrAuthenticationFailure
	}

	return ErrCommandRejected
}

// IsAuthFailure reports whether the modem rejected the request for
// authentication reasons. Some firmware returns nonstandard codes with an
// "Authentication ..." message, hence the message fallback.
func (e *ModemError) IsAuthFailure() bool {
	if _, ok := authFailureCodes[e.Code]; ok {
		return true
	}

	return strings.Contains(e.Msg, "Authentication")
}
