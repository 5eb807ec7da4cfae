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

// Package tool implements the interactive annotation tools.
//
// A tool is a small state machine driven by pointer events.  The primary
// button draws, the secondary button erases.  Tools modify the annotation
// list of the page being edited, and know how to paint the annotations they
// create, both on screen and in the exported document.
package tool

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/canvas"
)

// Tool is an annotation tool.
//
// Pointer events must be delivered in order from a single goroutine.
// A Move or Release without a preceding Press is ignored.
type Tool interface {
	// Kind returns the kind of annotation the tool creates.
	Kind() annot.Kind

	// Press starts a gesture at p.
	Press(p vec.Vec2, secondary bool)

	// Move continues the gesture.  The return value tells whether the
	// screen needs to be redrawn.
	Move(p vec.Vec2, page *annot.Page, secondary bool) bool

	// Release ends the gesture.  The return value tells whether the page
	// was changed.
	Release(p vec.Vec2, page *annot.Page, secondary bool) bool

	// Current returns the geometry of the gesture in progress, or nil.
	Current() annot.Annotation

	// Ghosts returns the page indices of annotations which are shown as
	// erase previews.
	Ghosts() []int

	// Render paints a on screen.  If ghost is set, a is about to be erased.
	Render(c canvas.Painter, a annot.Annotation, ghost bool)

	// ExportRender paints a into an exported page.  The matrix m maps
	// screen coordinates to page coordinates.
	ExportRender(c canvas.Painter, a annot.Annotation, m matrix.Matrix)
}

var (
	_ Tool = (*Highlighter)(nil)
	_ Tool = (*Pencil)(nil)
	_ Tool = (*TextTool)(nil)
)

var (
	yellow      = color.NRGBA{R: 255, G: 255, A: 255}
	paleYellow  = color.NRGBA{R: 255, G: 255, A: 96}
	red         = color.NRGBA{R: 255, A: 255}
	black       = color.NRGBA{A: 255}
	screenWidth = 1.0
)

// scaleOf returns the factor by which m stretches the x-axis.
func scaleOf(m matrix.Matrix) float64 {
	if s := math.Hypot(m[0], m[1]); s > 0 {
		return s
	}
	return 1
}
