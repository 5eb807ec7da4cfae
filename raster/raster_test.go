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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"testing"
)

func TestLuminance(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{150, 150, 150, 150},
		{255, 0, 0, 76},
		{0, 255, 0, 150},
		{0, 0, 255, 29},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d,%d,%d", c.r, c.g, c.b), func(t *testing.T) {
			if got := Luminance(c.r, c.g, c.b); got != c.want {
				t.Errorf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestForeground(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 14, 21))
	img.Set(10, 20, color.White)
	img.Set(11, 20, color.RGBA{R: 150, G: 150, B: 150, A: 255})
	img.Set(12, 20, color.RGBA{R: 151, G: 151, B: 151, A: 255})
	img.Set(13, 20, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	fg := NewExtractor().Foreground(img)
	if fg.Bounds() != image.Rect(0, 0, 4, 1) {
		t.Fatalf("bounds %v", fg.Bounds())
	}

	want := []color.NRGBA{
		{},
		{R: 150, G: 150, B: 150, A: 255},
		{},
		{R: 200, G: 10, B: 10, A: 255},
	}
	for x, w := range want {
		if got := fg.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d: got %v, want %v", x, got, w)
		}
	}
}

func TestForegroundQuality(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	e := &Extractor{Threshold: DefaultThreshold, Quality: 0.5}
	fg := e.Foreground(img)
	if fg.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("bounds %v", fg.Bounds())
	}
	if c := fg.NRGBAAt(5, 5); c.A != 255 {
		t.Errorf("black pixel became transparent: %v", c)
	}
}
