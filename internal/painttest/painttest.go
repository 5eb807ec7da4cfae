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

// Package painttest provides a recording [canvas.Painter] for tests.
package painttest

import (
	"image"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/shape"
)

// Op is one recorded drawing operation.
type Op struct {
	Name   string // "rect", "line" or "image"
	Rect   shape.Rect
	Points []vec.Vec2
	Style  canvas.Style
	Image  image.Image
}

// Recorder records all drawing operations.
type Recorder struct {
	Ops []Op
}

var _ canvas.Painter = (*Recorder)(nil)

// Rectangle implements the [canvas.Painter] interface.
func (r *Recorder) Rectangle(rect shape.Rect, s canvas.Style) {
	r.Ops = append(r.Ops, Op{Name: "rect", Rect: rect, Style: s})
}

// Polyline implements the [canvas.Painter] interface.
func (r *Recorder) Polyline(pts []vec.Vec2, s canvas.Style) {
	r.Ops = append(r.Ops, Op{Name: "line", Points: slices.Clone(pts), Style: s})
}

// Image implements the [canvas.Painter] interface.
func (r *Recorder) Image(rect shape.Rect, img image.Image) {
	r.Ops = append(r.Ops, Op{Name: "image", Rect: rect, Image: img})
}

// Names returns the names of the recorded operations.
func (r *Recorder) Names() []string {
	res := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		res[i] = op.Name
	}
	return res
}
