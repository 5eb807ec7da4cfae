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
)

// TextTool is the placeholder for text annotations.
// It reacts to no events and paints nothing.
type TextTool struct{}

// Kind implements the [Tool] interface.
func (TextTool) Kind() annot.Kind { return annot.Text }

// Press implements the [Tool] interface.
func (TextTool) Press(vec.Vec2, bool) {}

// Move implements the [Tool] interface.
func (TextTool) Move(vec.Vec2, *annot.Page, bool) bool { return false }

// Release implements the [Tool] interface.
func (TextTool) Release(vec.Vec2, *annot.Page, bool) bool { return false }

// Current implements the [Tool] interface.
func (TextTool) Current() annot.Annotation { return nil }

// Ghosts implements the [Tool] interface.
func (TextTool) Ghosts() []int { return nil }

// Render implements the [Tool] interface.
func (TextTool) Render(canvas.Painter, annot.Annotation, bool) {}

// ExportRender implements the [Tool] interface.
func (TextTool) ExportRender(canvas.Painter, annot.Annotation, matrix.Matrix) {}
