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

// Package raster separates the printed foreground of a scanned or rendered
// page from its paper-white background.
package raster

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Default settings for [Extractor].
const (
	DefaultThreshold = 150
	DefaultQuality   = 1.0
)

// Extractor makes the light background of page images transparent.
type Extractor struct {
	// Threshold is the largest luminance which still counts as ink.
	// Brighter pixels become fully transparent.
	Threshold uint8

	// Quality is the factor by which images are resized before the
	// background is removed.  Values <= 0 are treated as 1.
	Quality float64
}

// NewExtractor returns an extractor with the default settings.
func NewExtractor() *Extractor {
	return &Extractor{
		Threshold: DefaultThreshold,
		Quality:   DefaultQuality,
	}
}

// Foreground returns a copy of img in which every pixel with luminance
// above the threshold is transparent.  All other pixels keep their color
// and are fully opaque.
func (e *Extractor) Foreground(img image.Image) *image.NRGBA {
	src := e.resize(img)
	b := src.Bounds()
	res := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(res, res.Bounds(), src, b.Min, draw.Src)

	pix := res.Pix
	for y := 0; y < b.Dy(); y++ {
		row := pix[y*res.Stride : y*res.Stride+4*b.Dx()]
		for x := 0; x < len(row); x += 4 {
			if Luminance(row[x], row[x+1], row[x+2]) > e.Threshold {
				row[x], row[x+1], row[x+2], row[x+3] = 0, 0, 0, 0
			} else {
				row[x+3] = 255
			}
		}
	}
	return res
}

func (e *Extractor) resize(img image.Image) image.Image {
	q := e.Quality
	if q <= 0 || q == 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * q)
	h := int(float64(b.Dy()) * q)
	if w < 1 || h < 1 {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Luminance returns the gray value of an 8-bit RGB color, using the
// weights 0.299, 0.587 and 0.114 in 14-bit fixed point arithmetic.
func Luminance(r, g, b uint8) uint8 {
	const (
		wr    = 4899
		wg    = 9617
		wb    = 1868
		shift = 14
	)
	y := (uint32(r)*wr + uint32(g)*wg + uint32(b)*wb + 1<<(shift-1)) >> shift
	return uint8(y)
}
