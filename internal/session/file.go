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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FileStore persists the session as a JSON file readable only by the owner.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a store writing to path on the given filesystem.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Load() (*Session, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading session file: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		// A stale or corrupt session file is treated as absent so the
		// client falls back to a fresh login.
		log.Debug().Str("path", s.path).Err(err).Msg("Discarding unreadable session file")

		return nil, nil
	}

	if sess.Token == "" {
		return nil, nil
	}

	return sess, nil
}

func (s *FileStore) Save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	// Write to a temporary file and rename so a cancelled write retains
	// the prior record.
	if err := writeFileAtomic(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

func (s *FileStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}

	return nil
}

//nolint:nonamedreturns // named return is needed for cleanup
func writeFileAtomic(fs afero.Fs, filename string, data []byte, perm os.FileMode) (err error) {
	tf, err := afero.TempFile(fs, filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}

	tname := tf.Name()

	defer func() {
		if err != nil {
			//nolint:errcheck,gosec // we already return a more important error
			tf.Close()
			//nolint:errcheck,gosec // we already return a more important error
			fs.Remove(tname)
		}
	}()

	if _, err := tf.Write(data); err != nil {
		return err
	}

	if err := fs.Chmod(tname, perm); err != nil {
		return err
	}

	if err := tf.Close(); err != nil {
		return err
	}

	return fs.Rename(tname, filename)
}
