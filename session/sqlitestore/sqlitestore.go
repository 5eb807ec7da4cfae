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

// Package sqlitestore keeps annotation sessions in an SQLite database.
//
// Each session is one row of the "sessions" table.  The annotations of all
// pages are stored as a JSON array, in the same format as the session
// file of package jsonstore.  The "counters" table records one more than the
// largest session id ever stored, so that ids of deleted sessions are not
// handed out again.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/internal/logx"
	"seehuhn.de/go/inkpdf/session"
)

// Store is a [session.Store] backed by an SQLite database.
type Store struct {
	conn   *sql.DB
	logger *logrus.Logger
}

var (
	_ session.Store     = (*Store)(nil)
	_ session.IDTracker = (*Store)(nil)
)

// Open opens (or creates) the database at dbPath.
// If logger is nil, log messages are discarded.
func Open(dbPath string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, logger: logx.OrDiscard(logger)}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			pos INTEGER NOT NULL,
			file TEXT NOT NULL,
			pages TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_pos ON sessions(pos)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// ListAll implements the [session.Store] interface.
func (s *Store) ListAll() ([]*session.Session, error) {
	rows, err := s.conn.Query(`SELECT id, file, pages FROM sessions ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	all := []*session.Session{}
	for rows.Next() {
		var sess session.Session
		var pagesJSON string
		if err := rows.Scan(&sess.ID, &sess.SourceFile, &pagesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pagesJSON), &sess.Pages); err != nil {
			return nil, fmt.Errorf("session %d: %w", sess.ID, err)
		}
		all = append(all, &sess)
	}
	return all, rows.Err()
}

// Append implements the [session.Store] interface.
func (s *Store) Append(sess *session.Session) error {
	pagesJSON, err := encodePages(sess.Pages)
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var n int
	err = tx.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, sess.ID).Scan(&n)
	if err != nil {
		return fmt.Errorf("check session %d: %w", sess.ID, err)
	}
	if n > 0 {
		return session.ErrExists
	}

	_, err = tx.Exec(
		`INSERT INTO sessions (id, pos, file, pages)
		 VALUES (?, (SELECT COALESCE(MAX(pos), -1) + 1 FROM sessions), ?, ?)`,
		sess.ID, sess.SourceFile, pagesJSON,
	)
	if err != nil {
		return fmt.Errorf("insert session %d: %w", sess.ID, err)
	}
	if err := raiseNext(tx, sess.ID+1); err != nil {
		return err
	}
	return tx.Commit()
}

// Overwrite implements the [session.Store] interface.
// All rows are replaced inside a single transaction.
func (s *Store) Overwrite(all []*session.Session) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := raiseNextFromTable(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	for i, sess := range all {
		pagesJSON, err := encodePages(sess.Pages)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO sessions (id, pos, file, pages) VALUES (?, ?, ?, ?)`,
			sess.ID, i, sess.SourceFile, pagesJSON,
		)
		if err != nil {
			return fmt.Errorf("insert session %d: %w", sess.ID, err)
		}
		if err := raiseNext(tx, sess.ID+1); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.WithField("sessions", len(all)).Debug("rewrote session table")
	return nil
}

// Remove implements the [session.Store] interface.
func (s *Store) Remove(id int) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := raiseNextFromTable(tx); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return tx.Commit()
}

// NextID implements the [session.IDTracker] interface.
func (s *Store) NextID() (int, error) {
	var next int
	err := s.conn.QueryRow(
		`SELECT MAX(
			COALESCE((SELECT value FROM counters WHERE name = 'next_id'), 0),
			COALESCE((SELECT MAX(id) FROM sessions), -1) + 1)`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read next id: %w", err)
	}
	return next, nil
}

// raiseNext makes sure that the recorded next id is at least next.
func raiseNext(tx *sql.Tx, next int) error {
	_, err := tx.Exec(
		`INSERT INTO counters (name, value) VALUES ('next_id', ?)
		 ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		next,
	)
	if err != nil {
		return fmt.Errorf("update next id: %w", err)
	}
	return nil
}

// raiseNextFromTable records the ids of the sessions currently stored,
// before rows are deleted.
func raiseNextFromTable(tx *sql.Tx) error {
	var next int
	err := tx.QueryRow(`SELECT COALESCE(MAX(id), -1) + 1 FROM sessions`).Scan(&next)
	if err != nil {
		return fmt.Errorf("read session ids: %w", err)
	}
	return raiseNext(tx, next)
}

func encodePages(pages []annot.Page) (string, error) {
	if pages == nil {
		pages = []annot.Page{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return "", fmt.Errorf("encode pages: %w", err)
	}
	return string(data), nil
}
