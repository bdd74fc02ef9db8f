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

package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "jrd-modem-client"

// KeyringStore persists the session in the OS credential store (Secret
// Service, macOS Keychain, Windows Credential Manager). One record per
// modem endpoint, keyed by host.
type KeyringStore struct {
	account string
}

// NewKeyringStore returns a keyring-backed store for the given endpoint
// host (for example "192.168.1.1").
func NewKeyringStore(host string) *KeyringStore {
	return &KeyringStore{account: host}
}

func (s *KeyringStore) Load() (*Session, error) {
	secret, err := keyring.Get(keyringService, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading session from keyring: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(secret), sess); err != nil || sess.Token == "" {
		return nil, nil
	}

	return sess, nil
}

func (s *KeyringStore) Save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := keyring.Set(keyringService, s.account, string(data)); err != nil {
		return fmt.Errorf("writing session to keyring: %w", err)
	}

	return nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(keyringService, s.account); err != nil &&
		!errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing session from keyring: %w", err)
	}

	return nil
}
