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

package tool

import (
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/shape"
)

// Pencil draws freehand strokes.
//
// A primary drag records a polyline, which is simplified on release.
// A secondary drag erases: every stroke the pointer passes over is marked,
// and all marked strokes are removed when the button is released.
type Pencil struct {
	// Offset is the distance within which the eraser hits a stroke.
	Offset float64

	// SlopeTolerance controls the simplification of new strokes,
	// see [shape.Simplify].
	SlopeTolerance float64

	drawing bool
	points  []vec.Vec2
	marked  []int
}

// NewPencil returns a new pencil with the default tolerances.
func NewPencil() *Pencil {
	return &Pencil{
		Offset:         shape.DefaultEraseOffset,
		SlopeTolerance: shape.DefaultSlopeTolerance,
	}
}

// Kind implements the [Tool] interface.
func (t *Pencil) Kind() annot.Kind {
	return annot.Pencil
}

// Press implements the [Tool] interface.
func (t *Pencil) Press(p vec.Vec2, secondary bool) {
	if secondary {
		return
	}
	t.drawing = true
	t.points = append(t.points[:0], p)
}

// Move implements the [Tool] interface.
func (t *Pencil) Move(p vec.Vec2, page *annot.Page, secondary bool) bool {
	if secondary {
		return t.mark(p, *page)
	}
	if !t.drawing {
		return false
	}
	t.points = append(t.points, p)
	return true
}

// mark adds all strokes near p to the marked set.
// The return value tells whether the set grew.
func (t *Pencil) mark(p vec.Vec2, page annot.Page) bool {
	grew := false
	for i, a := range page {
		s, ok := a.(*annot.PencilStroke)
		if !ok || slices.Contains(t.marked, i) {
			continue
		}
		if t.hits(p, s) {
			t.marked = append(t.marked, i)
			grew = true
		}
	}
	return grew
}

func (t *Pencil) hits(p vec.Vec2, s *annot.PencilStroke) bool {
	for _, seg := range s.Segments {
		if shape.NearSegment(p, seg.A(), seg.B(), t.Offset) {
			return true
		}
	}
	return false
}

// Release implements the [Tool] interface.
func (t *Pencil) Release(p vec.Vec2, page *annot.Page, secondary bool) bool {
	if secondary {
		if len(t.marked) == 0 {
			return false
		}
		*page = page.Remove(t.marked...)
		t.marked = nil
		return true
	}

	if !t.drawing {
		return false
	}
	t.drawing = false
	t.points = append(t.points, p)
	pts := shape.Simplify(t.points, t.SlopeTolerance)
	t.points = t.points[:0]
	*page = append(*page, annot.NewPencilStroke(pts))
	return true
}

// Current implements the [Tool] interface.
func (t *Pencil) Current() annot.Annotation {
	if !t.drawing {
		return nil
	}
	return annot.NewPencilStroke(t.points)
}

// Ghosts implements the [Tool] interface.
func (t *Pencil) Ghosts() []int {
	return slices.Clone(t.marked)
}

// Render implements the [Tool] interface.
// Strokes marked for erasing are drawn in red.
func (t *Pencil) Render(c canvas.Painter, a annot.Annotation, ghost bool) {
	s, ok := a.(*annot.PencilStroke)
	if !ok {
		return
	}
	style := canvas.Style{Stroke: black, LineWidth: screenWidth}
	if ghost {
		style.Stroke = red
	}
	c.Polyline(s.Points(), style)
}

// ExportRender implements the [Tool] interface.
func (t *Pencil) ExportRender(c canvas.Painter, a annot.Annotation, m matrix.Matrix) {
	s, ok := a.(*annot.PencilStroke)
	if !ok {
		return
	}
	pts := s.Points()
	for i, p := range pts {
		pts[i] = shape.Apply(m, p)
	}
	c.Polyline(pts, canvas.Style{Stroke: black, LineWidth: scaleOf(m)})
}
