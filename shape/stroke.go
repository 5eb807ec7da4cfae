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

package shape

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// DefaultSlopeTolerance is the largest slope difference for which two
// consecutive segments of a freehand stroke are merged by [Simplify].
const DefaultSlopeTolerance = 1.5

// DefaultEraseOffset is the default distance, in pixels, within which
// the eraser hits a stroke segment.
const DefaultEraseOffset = 10.0

// Dist returns the Euclidean distance between a and b.
func Dist(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}

// Slope is the slope dy/dx of a line segment.
// Segments with dx == 0 have Vertical set and M is unused.
type Slope struct {
	M        float64
	Vertical bool
}

// SlopeOf returns the slope of the segment from a to b.
func SlopeOf(a, b vec.Vec2) Slope {
	if a.X == b.X {
		return Slope{Vertical: true}
	}
	return Slope{M: (b.Y - a.Y) / (b.X - a.X)}
}

// Similar reports whether s and o describe nearly the same direction:
// either both are vertical, or both are finite and differ by at most tol.
func (s Slope) Similar(o Slope, tol float64) bool {
	if s.Vertical || o.Vertical {
		return s.Vertical && o.Vertical
	}
	return math.Abs(s.M-o.M) <= tol
}

// NearSegment reports whether p lies within the ellipse which has its foci
// at the segment end points a and b and semi-minor axis offset.
// This approximates a capsule of radius offset around the segment.
func NearSegment(p, a, b vec.Vec2, offset float64) bool {
	half := Dist(a, b) / 2
	limit := 2 * math.Sqrt(offset*offset+half*half)
	return Dist(p, a)+Dist(p, b) <= limit
}

// Simplify removes interior points of a freehand polyline where the
// direction does not change noticeably.
//
// The slopes of all consecutive point pairs are computed first.  For every
// pair of adjacent segments with similar slopes (see [Slope.Similar]) the
// point shared by the two segments is dropped.  All decisions are made on the
// input polyline, so the first and last points are always kept.
func Simplify(pts []vec.Vec2, tol float64) []vec.Vec2 {
	if len(pts) < 3 {
		return append([]vec.Vec2(nil), pts...)
	}

	slopes := make([]Slope, len(pts)-1)
	for i := range slopes {
		slopes[i] = SlopeOf(pts[i], pts[i+1])
	}

	drop := make([]bool, len(pts))
	for i := 1; i < len(slopes); i++ {
		if slopes[i-1].Similar(slopes[i], tol) {
			drop[i] = true
		}
	}

	res := make([]vec.Vec2, 0, len(pts))
	for i, p := range pts {
		if !drop[i] {
			res = append(res, p)
		}
	}
	return res
}
