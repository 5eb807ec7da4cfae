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

// Package preview renders annotated pages into raster images.
//
// A headless host uses this to show the user what the editor's canvas looks
// like, and the tests use it to observe rendering.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/shape"
)

// Surface is a [canvas.Painter] which draws into an RGBA image.
type Surface struct {
	img    *image.RGBA
	raster *vector.Rasterizer
}

var _ canvas.Painter = (*Surface)(nil)

// NewSurface returns a white surface of the given size.
func NewSurface(width, height int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &Surface{
		img:    img,
		raster: vector.NewRasterizer(width, height),
	}
}

// RGBA returns the image the surface draws into.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Rectangle implements the [canvas.Painter] interface.
func (s *Surface) Rectangle(r shape.Rect, st canvas.Style) {
	if st.Fill != nil {
		s.begin()
		s.raster.MoveTo(float32(r.X0), float32(r.Y0))
		s.raster.LineTo(float32(r.X1), float32(r.Y0))
		s.raster.LineTo(float32(r.X1), float32(r.Y1))
		s.raster.LineTo(float32(r.X0), float32(r.Y1))
		s.raster.ClosePath()
		s.paint(st.Fill)
	}
	if st.Stroke != nil {
		corners := []vec.Vec2{
			{X: r.X0, Y: r.Y0},
			{X: r.X1, Y: r.Y0},
			{X: r.X1, Y: r.Y1},
			{X: r.X0, Y: r.Y1},
			{X: r.X0, Y: r.Y0},
		}
		s.stroke(corners, st)
	}
}

// Polyline implements the [canvas.Painter] interface.
func (s *Surface) Polyline(pts []vec.Vec2, st canvas.Style) {
	if st.Stroke == nil {
		return
	}
	s.stroke(pts, st)
}

// Image implements the [canvas.Painter] interface.
// The image is composited over the existing contents, so that transparent
// parts of img leave the annotations underneath visible.
func (s *Surface) Image(r shape.Rect, img image.Image) {
	dr := image.Rect(
		int(math.Round(r.X0)), int(math.Round(r.Y0)),
		int(math.Round(r.X1)), int(math.Round(r.Y1)))
	xdraw.BiLinear.Scale(s.img, dr, img, img.Bounds(), draw.Over, nil)
}

// WritePNG encodes the surface as a PNG image.
func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

func (s *Surface) begin() {
	b := s.img.Bounds()
	s.raster.Reset(b.Dx(), b.Dy())
}

func (s *Surface) paint(c color.Color) {
	s.raster.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}

// stroke draws every segment of the polyline as a quadrilateral of the
// given line width.  Zero-length segments are skipped; if no segment has
// positive length, a square dot of the line width is drawn at the first
// point.
func (s *Surface) stroke(pts []vec.Vec2, st canvas.Style) {
	w := st.LineWidth / 2
	if w < 0.5 {
		w = 0.5
	}

	if len(pts) == 0 {
		return
	}

	s.begin()
	drawn := false
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			continue
		}
		nx, ny := -d.Y/l*w, d.X/l*w
		s.raster.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		s.raster.LineTo(float32(b.X+nx), float32(b.Y+ny))
		s.raster.LineTo(float32(b.X-nx), float32(b.Y-ny))
		s.raster.LineTo(float32(a.X-nx), float32(a.Y-ny))
		s.raster.ClosePath()
		drawn = true
	}
	if !drawn {
		p := pts[0]
		s.raster.MoveTo(float32(p.X-w), float32(p.Y-w))
		s.raster.LineTo(float32(p.X+w), float32(p.Y-w))
		s.raster.LineTo(float32(p.X+w), float32(p.Y+w))
		s.raster.LineTo(float32(p.X-w), float32(p.Y+w))
		s.raster.ClosePath()
	}
	s.paint(st.Stroke)
}

// Fit returns the canvas size for a page image, and the factor by which
// the image is scaled down to fit into a maxW×maxH box.
func Fit(img image.Image, maxW, maxH float64) (width, height int, scale float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scale = shape.FitScale(maxW, maxH, w, h)
	return int(w * scale), int(h * scale), scale
}
