// seehuhn.de/go/inkpdf - ink and highlight annotations for PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package jsonstore keeps annotation sessions in a single JSON file.
//
// The file holds a JSON array with one object per session:
//
//	[{"id": 0, "file": "file.pdf", "data": [[...], [...]]}]
//
// Every change rewrites the whole file.  An advisory lock on "<path>.lock"
// keeps concurrent processes from interleaving their updates.  The file
// "<path>.next" records one more than the largest session id ever stored,
// so that ids of deleted sessions are not handed out again.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"seehuhn.de/go/inkpdf/internal/atomicfile"
	"seehuhn.de/go/inkpdf/internal/logx"
	"seehuhn.de/go/inkpdf/session"
)

// DefaultPath is the conventional name of the session file.
const DefaultPath = "sessions.json"

// Store is a [session.Store] backed by a JSON file.
type Store struct {
	path   string
	logger *logrus.Logger
}

var (
	_ session.Store     = (*Store)(nil)
	_ session.IDTracker = (*Store)(nil)
)

// New returns a store for the session file at path.  The file is created
// on the first write.  If logger is nil, log messages are discarded.
func New(path string, logger *logrus.Logger) *Store {
	return &Store{
		path:   path,
		logger: logx.OrDiscard(logger),
	}
}

// Path returns the location of the session file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func (s *Store) nextPath() string {
	return s.path + ".next"
}

// ListAll implements the [session.Store] interface.
func (s *Store) ListAll() ([]*session.Session, error) {
	fileLock := flock.New(s.lockPath())
	locked, err := fileLock.TryRLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire read lock on session file")
	}
	defer s.unlock(fileLock)

	return s.read()
}

// NextID implements the [session.IDTracker] interface.
func (s *Store) NextID() (int, error) {
	fileLock := flock.New(s.lockPath())
	locked, err := fileLock.TryRLock()
	if err != nil {
		return 0, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return 0, errors.New("could not acquire read lock on session file")
	}
	defer s.unlock(fileLock)

	all, err := s.read()
	if err != nil {
		return 0, err
	}
	next, err := s.readNext()
	if err != nil {
		return 0, err
	}
	return raiseNext(next, all), nil
}

// Append implements the [session.Store] interface.
func (s *Store) Append(sess *session.Session) error {
	return s.update(func(all []*session.Session) ([]*session.Session, error) {
		for _, other := range all {
			if other.ID == sess.ID {
				return nil, session.ErrExists
			}
		}
		return append(all, sess), nil
	})
}

// Overwrite implements the [session.Store] interface.
func (s *Store) Overwrite(all []*session.Session) error {
	return s.update(func([]*session.Session) ([]*session.Session, error) {
		return all, nil
	})
}

// Remove implements the [session.Store] interface.
func (s *Store) Remove(id int) error {
	return s.update(func(all []*session.Session) ([]*session.Session, error) {
		idx := slices.IndexFunc(all, func(sess *session.Session) bool {
			return sess.ID == id
		})
		if idx < 0 {
			return nil, session.ErrNotFound
		}
		return slices.Delete(all, idx, idx+1), nil
	})
}

// update runs fn on the current contents of the file while holding the
// write lock, and stores the result.
func (s *Store) update(fn func([]*session.Session) ([]*session.Session, error)) error {
	fileLock := flock.New(s.lockPath())
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire write lock on session file")
	}
	defer s.unlock(fileLock)

	all, err := s.read()
	if err != nil {
		return err
	}
	recorded, err := s.readNext()
	if err != nil {
		return err
	}
	next := raiseNext(recorded, all)

	all, err = fn(all)
	if err != nil {
		return err
	}

	// The id file is updated first, so that a failed write can waste an
	// id but never reuse one.
	next = raiseNext(next, all)
	if next != recorded {
		if err := s.writeNext(next); err != nil {
			return err
		}
	}
	return s.write(all)
}

// raiseNext returns the smallest value >= next which is larger than all
// session ids in all.
func raiseNext(next int, all []*session.Session) int {
	for _, sess := range all {
		next = max(next, sess.ID+1)
	}
	return next
}

// readNext returns the value recorded in the id file, or 0 if there is no
// such file.  The caller must hold the lock.
func (s *Store) readNext() (int, error) {
	data, err := os.ReadFile(s.nextPath())
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to read id file: %w", err)
	}
	next, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || next < 0 {
		return 0, fmt.Errorf("malformed id file %q", s.nextPath())
	}
	return next, nil
}

// writeNext replaces the id file.  The caller must hold the write lock.
func (s *Store) writeNext(next int) error {
	data := []byte(strconv.Itoa(next) + "\n")
	return atomicfile.WriteFile(s.nextPath(), data, 0644)
}

func (s *Store) unlock(fileLock *flock.Flock) {
	if err := fileLock.Unlock(); err != nil {
		s.logger.WithError(err).Warn("Failed to release session file lock")
	}
}

// read loads the session file.  The caller must hold the lock.
// A missing file holds no sessions.
func (s *Store) read() ([]*session.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*session.Session{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var all []*session.Session
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse session file %q: %w", s.path, err)
	}
	if all == nil {
		all = []*session.Session{}
	}
	return all, nil
}

// write replaces the session file.  The caller must hold the write lock.
func (s *Store) write(all []*session.Session) error {
	if all == nil {
		all = []*session.Session{}
	}
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, data, 0644); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"path":     s.path,
		"sessions": len(all),
	}).Debug("wrote session file")
	return nil
}
