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

// Package session implements annotation sessions.
//
// A session collects the annotations made on one source document, one
// [annot.Page] per page of the document.  Sessions are kept in a [Store]
// and managed through a [Manager].
package session

import (
	"errors"
	"slices"
	"sync"

	"seehuhn.de/go/inkpdf/annot"
)

// Session is the annotation state of one source document.
// The number of pages is fixed when the session is created.
type Session struct {
	ID         int          `json:"id"`
	SourceFile string       `json:"file"`
	Pages      []annot.Page `json:"data"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	pages := make([]annot.Page, len(s.Pages))
	for i, p := range s.Pages {
		pages[i] = p.Clone()
	}
	return &Session{ID: s.ID, SourceFile: s.SourceFile, Pages: pages}
}

// PageCount returns the number of pages of the source document.
func (s *Session) PageCount() int {
	return len(s.Pages)
}

var (
	// ErrNotFound is returned when a session id does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrOutOfRange is returned for page indices outside the session.
	ErrOutOfRange = errors.New("page index out of range")

	// ErrExists is returned when a session with the same id is already
	// stored.
	ErrExists = errors.New("session already exists")
)

// PersistenceError reports a failure of the session store.
type PersistenceError struct {
	Op  string
	Err error
}

func (err *PersistenceError) Error() string {
	return "session store: " + err.Op + ": " + err.Err.Error()
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}

// Store is the durable collection of all sessions.
//
// Stores work on whole sessions.  Callers must not modify sessions passed
// to or returned from a store after the call.
type Store interface {
	// ListAll returns all sessions, in the order they were added.
	ListAll() ([]*Session, error)

	// Append adds a new session.  If a session with the same id exists,
	// ErrExists is returned.
	Append(s *Session) error

	// Overwrite replaces the stored sessions by the given list.
	Overwrite(all []*Session) error

	// Remove deletes the session with the given id.  If no such session
	// exists, ErrNotFound is returned.
	Remove(id int) error
}

// IDTracker is implemented by stores which remember the largest session
// id they ever held.  [Manager] uses this to avoid giving a new session the
// id of a deleted one.
type IDTracker interface {
	// NextID returns one more than the largest id ever appended to the
	// store, or 0 if nothing was appended yet.
	NextID() (int, error)
}

// MemStore is a [Store] which keeps the sessions in memory.
// The zero value is an empty store, ready to use.
type MemStore struct {
	mu       sync.Mutex
	sessions []*Session
	next     int
}

var (
	_ Store     = (*MemStore)(nil)
	_ IDTracker = (*MemStore)(nil)
)

// ListAll implements the [Store] interface.
func (m *MemStore) ListAll() ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.sessions), nil
}

// Append implements the [Store] interface.
func (m *MemStore) Append(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.sessions, s.ID) >= 0 {
		return ErrExists
	}
	m.sessions = append(m.sessions, s.Clone())
	m.next = max(m.next, s.ID+1)
	return nil
}

// NextID implements the [IDTracker] interface.
func (m *MemStore) NextID() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next, nil
}

// Overwrite implements the [Store] interface.
func (m *MemStore) Overwrite(all []*Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = cloneAll(all)
	for _, s := range all {
		m.next = max(m.next, s.ID+1)
	}
	return nil
}

// Remove implements the [Store] interface.
func (m *MemStore) Remove(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexOf(m.sessions, id)
	if idx < 0 {
		return ErrNotFound
	}
	m.sessions = slices.Delete(m.sessions, idx, idx+1)
	return nil
}

func cloneAll(all []*Session) []*Session {
	res := make([]*Session, len(all))
	for i, s := range all {
		res[i] = s.Clone()
	}
	return res
}

func indexOf(all []*Session, id int) int {
	return slices.IndexFunc(all, func(s *Session) bool { return s.ID == id })
}
