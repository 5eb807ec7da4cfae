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
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func pts(xy ...float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(xy)/2)
	for i := range res {
		res[i] = vec.Vec2{X: xy[2*i], Y: xy[2*i+1]}
	}
	return res
}

func TestInsideRect(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 20}
	cases := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0, 0, true},
		{10, 20, true},
		{0, 20, true},
		{10, 0, true},
		{10.001, 5, false},
		{-0.001, 5, false},
		{5, 20.5, false},
		{5, -1, false},
	}
	for _, c := range cases {
		p := vec.Vec2{X: c.x, Y: c.y}
		if got := InsideRect(p, r); got != c.want {
			t.Errorf("InsideRect(%v, %v) = %t, want %t", p, r, got, c.want)
		}
	}
}

func TestRectFromPoints(t *testing.T) {
	want := Rect{X0: 1, Y0: 2, X1: 5, Y1: 7}
	corners := [][2]vec.Vec2{
		{{X: 1, Y: 2}, {X: 5, Y: 7}},
		{{X: 5, Y: 7}, {X: 1, Y: 2}},
		{{X: 1, Y: 7}, {X: 5, Y: 2}},
		{{X: 5, Y: 2}, {X: 1, Y: 7}},
	}
	for i, c := range corners {
		got := RectFromPoints(c[0], c[1])
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%d: (-want +got)\n%s", i, d)
		}
		if !got.IsNormalized() {
			t.Errorf("%d: %v is not normalized", i, got)
		}
	}

	flipped := Rect{X0: 5, Y0: 7, X1: 1, Y1: 2}
	if d := cmp.Diff(want, flipped.Normalize()); d != "" {
		t.Errorf("Normalize: (-want +got)\n%s", d)
	}
}

func TestRectTransform(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}
	got := r.Transform(matrix.Scale(2, 2))
	want := Rect{X0: 0, Y0: 0, X1: 200, Y1: 200}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got)\n%s", d)
	}
}

func TestApply(t *testing.T) {
	m := matrix.Matrix{2, 0, 0, 3, 10, 20}
	got := Apply(m, vec.Vec2{X: 1, Y: 1})
	want := vec.Vec2{X: 12, Y: 23}
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}

	flip := matrix.Matrix{1, 0, 0, -1, 0, 100}
	r := Rect{X0: 10, Y0: 10, X1: 20, Y1: 30}.Transform(flip)
	if d := cmp.Diff(Rect{X0: 10, Y0: 70, X1: 20, Y1: 90}, r); d != "" {
		t.Errorf("flip: (-want +got)\n%s", d)
	}
}

func TestFitScale(t *testing.T) {
	cases := []struct {
		boxW, boxH, w, h, want float64
	}{
		{100, 100, 200, 200, 0.5},
		{721, 1020, 721, 1020, 1},
		{721, 1020, 1442, 1020, 0.5},
		{200, 100, 100, 100, 1},
	}
	for _, c := range cases {
		got := FitScale(c.boxW, c.boxH, c.w, c.h)
		if got != c.want {
			t.Errorf("FitScale(%g, %g, %g, %g) = %g, want %g",
				c.boxW, c.boxH, c.w, c.h, got, c.want)
		}
	}
}

func TestSlopeOf(t *testing.T) {
	cases := []struct {
		a, b vec.Vec2
		want Slope
	}{
		{vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 1, Y: 1}, Slope{M: 1}},
		{vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 2, Y: 20}, Slope{M: 10}},
		{vec.Vec2{X: 1, Y: 10}, vec.Vec2{X: 3, Y: 4}, Slope{M: -3}},
		{vec.Vec2{X: 3, Y: 5}, vec.Vec2{X: 3, Y: 8}, Slope{Vertical: true}},
		{vec.Vec2{X: 3, Y: 5}, vec.Vec2{X: 3, Y: 5}, Slope{Vertical: true}},
	}
	for _, c := range cases {
		got := SlopeOf(c.a, c.b)
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("SlopeOf(%v, %v): (-want +got)\n%s", c.a, c.b, d)
		}
	}
}

func TestSlopeSimilar(t *testing.T) {
	v := Slope{Vertical: true}
	cases := []struct {
		s, o Slope
		want bool
	}{
		{v, v, true},
		{v, Slope{M: 0}, false},
		{Slope{M: 1e9}, v, false},
		{Slope{M: 1}, Slope{M: 2.5}, true},
		{Slope{M: 1}, Slope{M: 2.6}, false},
		{Slope{M: -1}, Slope{M: 0.5}, true},
	}
	for _, c := range cases {
		if got := c.s.Similar(c.o, DefaultSlopeTolerance); got != c.want {
			t.Errorf("%v.Similar(%v) = %t, want %t", c.s, c.o, got, c.want)
		}
	}
}

func TestNearSegment(t *testing.T) {
	a := vec.Vec2{X: 0, Y: 0}
	b := vec.Vec2{X: 10, Y: 0}
	cases := []struct {
		p    vec.Vec2
		want bool
	}{
		{vec.Vec2{X: 5, Y: 0}, true},
		{vec.Vec2{X: 5, Y: 10}, true}, // on the ellipse
		{vec.Vec2{X: 5, Y: 10.5}, false},
		{vec.Vec2{X: -5, Y: 0}, true},
		{vec.Vec2{X: -12, Y: 0}, false},
		{vec.Vec2{X: 22, Y: 0}, false},
	}
	for _, c := range cases {
		if got := NearSegment(c.p, a, b, DefaultEraseOffset); got != c.want {
			t.Errorf("NearSegment(%v) = %t, want %t", c.p, got, c.want)
		}
	}

	// a degenerate segment is a disk of radius offset
	if !NearSegment(vec.Vec2{X: 3, Y: 4}, a, a, 5) {
		t.Error("point at distance 5 should hit a point segment with offset 5")
	}
	if NearSegment(vec.Vec2{X: 3, Y: 4.1}, a, a, 5) {
		t.Error("point beyond distance 5 should miss")
	}
}

func TestSimplify(t *testing.T) {
	cases := []struct {
		in, want []vec.Vec2
	}{
		{ // collinear run, vertical run, corners
			in:   pts(0, 0, 1, 1, 2, 2, 3, 5, 3, 8, 3, 10, 4, 10),
			want: pts(0, 0, 2, 2, 3, 5, 3, 10, 4, 10),
		},
		{ // straight line collapses to its end points
			in:   pts(0, 0, 1, 0, 2, 0, 3, 0, 4, 0),
			want: pts(0, 0, 4, 0),
		},
		{ // too short to simplify
			in:   pts(1, 1, 2, 2),
			want: pts(1, 1, 2, 2),
		},
		{
			in:   pts(7, 7),
			want: pts(7, 7),
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("%02d", i), func(t *testing.T) {
			got := Simplify(c.in, DefaultSlopeTolerance)
			if d := cmp.Diff(c.want, got); d != "" {
				t.Errorf("(-want +got)\n%s", d)
			}
		})
	}
}

// TestSimplifyUsesTrueSlope pins the slope formula.  The segments
// (0,0)-(2,20) and (2,20)-(4,40) both have slope 10, so the middle point
// goes away.  Evaluating y1 - y0/(x1-x0) instead would give 20 and 30 and
// keep all three points.
func TestSimplifyUsesTrueSlope(t *testing.T) {
	in := pts(0, 0, 2, 20, 4, 40)
	want := pts(0, 0, 4, 40)
	got := Simplify(in, DefaultSlopeTolerance)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got)\n%s", d)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	in := pts(0, 0, 1, 0, 2, 5, 3, 5, 3, 9, 10, 9)
	once := Simplify(in, DefaultSlopeTolerance)
	if d := cmp.Diff(in, once); d != "" {
		t.Fatalf("distinct slopes should be kept (-want +got)\n%s", d)
	}
	twice := Simplify(once, DefaultSlopeTolerance)
	if d := cmp.Diff(once, twice); d != "" {
		t.Errorf("(-once +twice)\n%s", d)
	}
}

func TestSimplifyDoesNotAlias(t *testing.T) {
	in := pts(0, 0, 5, 5)
	out := Simplify(in, DefaultSlopeTolerance)
	out[0].X = 99
	if in[0].X != 0 {
		t.Error("Simplify returned a slice sharing storage with its input")
	}
}
