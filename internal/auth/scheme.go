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

package auth

import "fmt"

// Scheme is one fixed strategy for protecting login credentials and
// representing the session token on the wire. Firmware variants with an
// uncharacterized transform (MW45V asymmetric field keys, HUB71 token
// derivation) become new values here plus a cipherutil.Keyset; the
// negotiator does not change.
type Scheme int

const (
	// SchemePlain sends credentials in the clear (MW40V1 and similar).
	SchemePlain Scheme = iota

	// SchemeSharedKey obfuscates both credential fields with the fixed
	// shared key (HH72/HH40V line).
	SchemeSharedKey

	// SchemeHeaderOnly covers modems without a login step at all: their
	// restricted commands are satisfied by the verification key header.
	SchemeHeaderOnly
)

// probeOrder is the fixed priority list tried against a modem of unknown
// variant, cheapest and most common first. SchemeHeaderOnly never appears
// here: it is selected by configuration, not probing.
var probeOrder = []Scheme{SchemePlain, SchemeSharedKey}

func (s Scheme) String() string {
	switch s {
	case SchemePlain:
		return "plain"
	case SchemeSharedKey:
		return "shared-key"
	case SchemeHeaderOnly:
		return "header-only"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseScheme is the inverse of String, used when restoring a persisted
// session.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "plain":
		return SchemePlain, nil
	case "shared-key":
		return SchemeSharedKey, nil
	case "header-only":
		return SchemeHeaderOnly, nil
	default:
		return 0, fmt.Errorf("unknown auth scheme %q", s)
	}
}
