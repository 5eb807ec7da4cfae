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

package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/session"
	"seehuhn.de/go/inkpdf/shape"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "sessions.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestEmpty(t *testing.T) {
	s, _ := openTestStore(t)
	all, err := s.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAppendKeepsOrder(t *testing.T) {
	s, _ := openTestStore(t)
	for _, id := range []int{4, 1, 7} {
		require.NoError(t, s.Append(&session.Session{ID: id, SourceFile: "f.pdf", Pages: []annot.Page{{}}}))
	}
	assert.ErrorIs(t, s.Append(&session.Session{ID: 1}), session.ErrExists)

	all, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 4, all[0].ID)
	assert.Equal(t, 1, all[1].ID)
	assert.Equal(t, 7, all[2].ID)
}

func TestRoundTrip(t *testing.T) {
	s, path := openTestStore(t)
	sess := &session.Session{
		ID:         2,
		SourceFile: "scan.pdf",
		Pages: []annot.Page{
			{&annot.HighlightRect{Rect: shape.Rect{X0: 1, Y0: 2, X1: 30, Y1: 40}}},
			{annot.NewPencilStroke([]vec.Vec2{{X: 1, Y: 1}, {X: 8, Y: 3}})},
			{},
		},
	}
	require.NoError(t, s.Append(sess))
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sess, all[0])
}

func TestOverwriteAndRemove(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Append(&session.Session{ID: 0, SourceFile: "old.pdf", Pages: []annot.Page{{}}}))
	require.NoError(t, s.Overwrite([]*session.Session{
		{ID: 5, SourceFile: "b.pdf", Pages: []annot.Page{{}}},
		{ID: 3, SourceFile: "a.pdf", Pages: []annot.Page{{}}},
	}))

	all, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 5, all[0].ID)
	assert.Equal(t, 3, all[1].ID)

	assert.ErrorIs(t, s.Remove(0), session.ErrNotFound)
	require.NoError(t, s.Remove(5))
	all, err = s.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a.pdf", all[0].SourceFile)
}

func TestWithManager(t *testing.T) {
	s, _ := openTestStore(t)
	m := session.NewManager(s, nil)

	a, err := m.Create("a.pdf", 2)
	require.NoError(t, err)
	b, err := m.Create("b.pdf", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, []int{a.ID, b.ID})

	page := annot.Page{&annot.HighlightRect{Rect: shape.Rect{X1: 5, Y1: 5}}}
	require.NoError(t, m.CommitPage(a, 1, page))

	loaded, err := m.Load(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, loaded)

	assert.ErrorIs(t, m.Delete(9), session.ErrNotFound)
	require.NoError(t, m.Delete(a.ID))
	all, err := m.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].ID)
}

func TestIDsNotReusedAcrossManagers(t *testing.T) {
	s, path := openTestStore(t)
	first, err := session.NewManager(s, nil).Create("a.pdf", 1)
	require.NoError(t, err)
	require.Equal(t, 0, first.ID)
	require.NoError(t, session.NewManager(s, nil).Delete(first.ID))
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	next, err := reopened.NextID()
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	second, err := session.NewManager(reopened, nil).Create("b.pdf", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.ID)
}

func TestNextIDAfterOverwrite(t *testing.T) {
	s, _ := openTestStore(t)
	next, err := s.NextID()
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	require.NoError(t, s.Overwrite([]*session.Session{{ID: 9, Pages: []annot.Page{{}}}}))
	require.NoError(t, s.Overwrite(nil))

	next, err = s.NextID()
	require.NoError(t, err)
	assert.Equal(t, 10, next)
}
