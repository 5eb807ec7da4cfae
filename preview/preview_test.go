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

package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/shape"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func rgbaAt(s *Surface, x, y int) color.RGBA {
	return s.RGBA().RGBAAt(x, y)
}

func TestRectangleFill(t *testing.T) {
	s := NewSurface(40, 40)
	s.Rectangle(shape.Rect{X0: 10, Y0: 10, X1: 20, Y1: 20}, canvas.Style{Fill: red})

	if c := rgbaAt(s, 15, 15); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside: %v", c)
	}
	if c := rgbaAt(s, 5, 5); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("outside: %v", c)
	}
}

func TestRectangleOutline(t *testing.T) {
	s := NewSurface(40, 40)
	s.Rectangle(shape.Rect{X0: 10, Y0: 10, X1: 30, Y1: 30}, canvas.Style{Stroke: blue, LineWidth: 2})

	if c := rgbaAt(s, 20, 10); c.B < 200 || c.R > 100 {
		t.Errorf("edge: %v", c)
	}
	if c := rgbaAt(s, 20, 20); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("interior of an unfilled rectangle: %v", c)
	}
}

func TestPolyline(t *testing.T) {
	s := NewSurface(100, 100)
	pts := []vec.Vec2{{X: 0, Y: 50}, {X: 100, Y: 50}, {X: 100, Y: 50}}
	s.Polyline(pts, canvas.Style{Stroke: black, LineWidth: 2})

	if c := rgbaAt(s, 50, 50); c.R > 100 {
		t.Errorf("on the line: %v", c)
	}
	if c := rgbaAt(s, 50, 60); c.R != 255 {
		t.Errorf("off the line: %v", c)
	}

	// polylines without stroke color are invisible
	s2 := NewSurface(100, 100)
	s2.Polyline(pts, canvas.Style{Fill: black})
	if c := rgbaAt(s2, 50, 50); c.R != 255 {
		t.Errorf("unstroked line painted: %v", c)
	}
}

func TestPolylineDot(t *testing.T) {
	for _, pts := range [][]vec.Vec2{
		{{X: 50, Y: 50}},
		{{X: 50, Y: 50}, {X: 50, Y: 50}},
	} {
		s := NewSurface(100, 100)
		s.Polyline(pts, canvas.Style{Stroke: black, LineWidth: 4})

		if c := rgbaAt(s, 50, 50); c.R != 0 {
			t.Errorf("%d points: centre of the dot: %v", len(pts), c)
		}
		if c := rgbaAt(s, 49, 49); c.R != 0 {
			t.Errorf("%d points: inside the dot: %v", len(pts), c)
		}
		if c := rgbaAt(s, 55, 50); c.R != 255 {
			t.Errorf("%d points: outside the dot: %v", len(pts), c)
		}
	}
}

func TestImageOver(t *testing.T) {
	s := NewSurface(20, 20)
	s.Rectangle(shape.Rect{X0: 0, Y0: 0, X1: 20, Y1: 20}, canvas.Style{Fill: red})

	// left half transparent, right half opaque blue
	bg := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			bg.SetNRGBA(x, y, blue)
		}
	}
	s.Image(shape.Rect{X0: 0, Y0: 0, X1: 20, Y1: 20}, bg)

	if c := rgbaAt(s, 2, 10); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("transparent area: %v", c)
	}
	if c := rgbaAt(s, 17, 10); c.B < 250 || c.R > 5 {
		t.Errorf("opaque area: %v", c)
	}
}

func TestWritePNG(t *testing.T) {
	s := NewSurface(8, 4)
	buf := &bytes.Buffer{}
	if err := s.WritePNG(buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h         int
		wantW, wantH int
		wantScale    float64
	}{
		{1442, 2040, 721, 1020, 0.5},
		{721, 1020, 721, 1020, 1},
		{500, 2040, 250, 1020, 0.5},
	}
	for _, c := range cases {
		img := image.NewGray(image.Rect(0, 0, c.w, c.h))
		w, h, scale := Fit(img, 721, 1020)
		if w != c.wantW || h != c.wantH || scale != c.wantScale {
			t.Errorf("Fit(%dx%d) = %d, %d, %g", c.w, c.h, w, h, scale)
		}
	}
}
