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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/shape"
)

// Highlighter draws highlight rectangles.
//
// A primary drag spans a rectangle between the press point and the pointer.
// A secondary click removes the topmost highlight under the pointer.
type Highlighter struct {
	drawing bool
	origin  vec.Vec2
	rect    shape.Rect
}

// NewHighlighter returns a new highlighter in the idle state.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Kind implements the [Tool] interface.
func (h *Highlighter) Kind() annot.Kind {
	return annot.Highlight
}

// Press implements the [Tool] interface.
func (h *Highlighter) Press(p vec.Vec2, secondary bool) {
	if secondary {
		return
	}
	h.drawing = true
	h.origin = p
	h.rect = shape.RectFromPoints(p, p)
}

// Move implements the [Tool] interface.
func (h *Highlighter) Move(p vec.Vec2, page *annot.Page, secondary bool) bool {
	if secondary || !h.drawing {
		return false
	}
	h.rect = shape.RectFromPoints(h.origin, p)
	return true
}

// Release implements the [Tool] interface.
func (h *Highlighter) Release(p vec.Vec2, page *annot.Page, secondary bool) bool {
	if secondary {
		idx := TopmostHighlight(*page, p)
		if idx < 0 {
			return false
		}
		*page = page.Remove(idx)
		return true
	}

	if !h.drawing {
		return false
	}
	h.drawing = false
	h.rect = shape.RectFromPoints(h.origin, p)
	*page = append(*page, &annot.HighlightRect{Rect: h.rect})
	return true
}

// TopmostHighlight returns the index of the last highlight on the page
// which contains p, or -1 if there is none.
func TopmostHighlight(page annot.Page, p vec.Vec2) int {
	for i := len(page) - 1; i >= 0; i-- {
		h, ok := page[i].(*annot.HighlightRect)
		if ok && shape.InsideRect(p, h.Rect) {
			return i
		}
	}
	return -1
}

// Current implements the [Tool] interface.
func (h *Highlighter) Current() annot.Annotation {
	if !h.drawing {
		return nil
	}
	return &annot.HighlightRect{Rect: h.rect}
}

// Ghosts implements the [Tool] interface.
// Highlights are removed immediately, so there are never any ghosts.
func (h *Highlighter) Ghosts() []int {
	return nil
}

// Render implements the [Tool] interface.
func (h *Highlighter) Render(c canvas.Painter, a annot.Annotation, ghost bool) {
	hl, ok := a.(*annot.HighlightRect)
	if !ok {
		return
	}
	c.Rectangle(hl.Rect, canvas.Style{
		Stroke:    red,
		Fill:      yellow,
		LineWidth: screenWidth,
	})
}

// ExportRender implements the [Tool] interface.
func (h *Highlighter) ExportRender(c canvas.Painter, a annot.Annotation, m matrix.Matrix) {
	hl, ok := a.(*annot.HighlightRect)
	if !ok {
		return
	}
	c.Rectangle(hl.Rect.Transform(m), canvas.Style{
		Stroke:    red,
		Fill:      paleYellow,
		LineWidth: 0.5 * scaleOf(m),
	})
}
