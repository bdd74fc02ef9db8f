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

// Package session persists the modem session token across process
// invocations. At most one session exists per modem endpoint.
package session

import (
	"sync"
	"time"
)

// Session is the record obtained from a successful login. Scheme is the
// string form of the auth scheme that won the login negotiation, so later
// logins against the same endpoint do not re-probe.
type Session struct {
	Token      string    `json:"token"`
	Scheme     string    `json:"scheme"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// Store persists one session record. Load returns (nil, nil) when no
// session is stored. Save must be atomic: either the full record is written
// or the prior one is retained.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// MemoryStore keeps the session in process memory only. Useful for tests
// and for embedding applications that manage persistence themselves.
type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return nil, nil
	}

	sess := *s.sess

	return &sess, nil
}

func (s *MemoryStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *sess
	s.sess = &copied

	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = nil

	return nil
}
