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

package session

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/internal/logx"
)

// Manager creates, loads, updates and deletes sessions in a [Store].
//
// A Manager is not safe for concurrent use.
type Manager struct {
	store  Store
	logger *logrus.Logger

	// next is a lower bound for new session ids.  It makes sure that an id
	// is not handed out twice by the same manager, even if the session
	// with the highest id has been deleted in between.  Stores which
	// implement [IDTracker] extend this guarantee across managers.
	next int
}

// NewManager returns a manager for the sessions in store.
// If logger is nil, log messages are discarded.
func NewManager(store Store, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logx.OrDiscard(logger),
	}
}

// Create starts a new session for a document with the given number of
// pages.  All pages start out empty.
func (m *Manager) Create(sourceFile string, pageCount int) (*Session, error) {
	if pageCount < 1 {
		return nil, fmt.Errorf("invalid page count %d for %q", pageCount, sourceFile)
	}

	all, err := m.store.ListAll()
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	id := m.next
	if t, ok := m.store.(IDTracker); ok {
		storeNext, err := t.NextID()
		if err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		id = max(id, storeNext)
	}
	for _, s := range all {
		if s.ID >= id {
			id = s.ID + 1
		}
	}

	s := &Session{
		ID:         id,
		SourceFile: sourceFile,
		Pages:      make([]annot.Page, pageCount),
	}
	for i := range s.Pages {
		s.Pages[i] = annot.Page{}
	}
	if err := m.store.Append(s); err != nil {
		return nil, &PersistenceError{Op: "append", Err: err}
	}
	m.next = id + 1

	m.logger.WithFields(logrus.Fields{
		"session": id,
		"file":    sourceFile,
		"pages":   pageCount,
	}).Info("created session")
	return s, nil
}

// List returns all sessions.
func (m *Manager) List() ([]*Session, error) {
	all, err := m.store.ListAll()
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return all, nil
}

// Load returns the session with the given id.
func (m *Manager) Load(id int) (*Session, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return all[idx], nil
}

// CommitPage replaces the annotations of one page of s, first in the store
// and then in s itself.  If the store cannot be updated, s is left
// unchanged.
func (m *Manager) CommitPage(s *Session, page int, annots annot.Page) error {
	if page < 0 || page >= len(s.Pages) {
		return fmt.Errorf("session %d, page %d: %w", s.ID, page, ErrOutOfRange)
	}

	all, err := m.List()
	if err != nil {
		return err
	}
	idx := indexOf(all, s.ID)
	if idx < 0 {
		return fmt.Errorf("session %d: %w", s.ID, ErrNotFound)
	}
	stored := all[idx]
	if page >= len(stored.Pages) {
		return fmt.Errorf("session %d, page %d: %w", s.ID, page, ErrOutOfRange)
	}

	if annots == nil {
		annots = annot.Page{}
	}
	stored.Pages[page] = annots.Clone()
	if err := m.store.Overwrite(all); err != nil {
		return &PersistenceError{Op: "overwrite", Err: err}
	}
	s.Pages[page] = annots.Clone()

	m.logger.WithFields(logrus.Fields{
		"session": s.ID,
		"page":    page,
	}).Debugf("committed %s", annot.Summary(annots))
	return nil
}

// Delete removes the session with the given id.  The ids of the
// remaining sessions are not changed.
func (m *Manager) Delete(id int) error {
	all, err := m.List()
	if err != nil {
		return err
	}
	if indexOf(all, id) < 0 {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err := m.store.Remove(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("session %d: %w", id, err)
		}
		return &PersistenceError{Op: "remove", Err: err}
	}

	m.logger.WithField("session", id).Info("deleted session")
	return nil
}
