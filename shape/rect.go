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

// Package shape implements the planar geometry used by the annotation tools.
//
// All coordinates are screen coordinates: the origin is the top-left corner
// of the page and y grows downwards.  Points are represented as [vec.Vec2].
package shape

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Rect is an axis-parallel rectangle.
// A normalized rectangle has X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b vec.Vec2) Rect {
	return Rect{
		X0: math.Min(a.X, b.X),
		Y0: math.Min(a.Y, b.Y),
		X1: math.Max(a.X, b.X),
		Y1: math.Max(a.Y, b.Y),
	}
}

// Normalize returns a copy of r with the corners sorted.
func (r Rect) Normalize() Rect {
	return RectFromPoints(vec.Vec2{X: r.X0, Y: r.Y0}, vec.Vec2{X: r.X1, Y: r.Y1})
}

// IsNormalized reports whether the corners of r are sorted.
func (r Rect) IsNormalized() bool {
	return r.X0 <= r.X1 && r.Y0 <= r.Y1
}

// Dx returns the width of r.
func (r Rect) Dx() float64 {
	return r.X1 - r.X0
}

// Dy returns the height of r.
func (r Rect) Dy() float64 {
	return r.Y1 - r.Y0
}

// Contains reports whether p lies in the closed rectangle r.
// Points on the boundary are inside.
func (r Rect) Contains(p vec.Vec2) bool {
	return r.X0 <= p.X && p.X <= r.X1 && r.Y0 <= p.Y && p.Y <= r.Y1
}

// InsideRect reports whether p lies in the closed rectangle r.
func InsideRect(p vec.Vec2, r Rect) bool {
	return r.Contains(p)
}

// Transform maps both corners of r through m and returns the normalized
// result.  This is exact for scalings and translations.
func (r Rect) Transform(m matrix.Matrix) Rect {
	return RectFromPoints(
		Apply(m, vec.Vec2{X: r.X0, Y: r.Y0}),
		Apply(m, vec.Vec2{X: r.X1, Y: r.Y1}))
}

// Apply maps the point p through m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: p.X*m[0] + p.Y*m[2] + m[4],
		Y: p.X*m[1] + p.Y*m[3] + m[5],
	}
}

// FitScale returns the largest uniform scale factor which fits a w×h box
// into a boxW×boxH box.
func FitScale(boxW, boxH, w, h float64) float64 {
	return math.Min(boxW/w, boxH/h)
}
