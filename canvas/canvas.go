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

// Package canvas defines the drawing interface shared by the on-screen
// preview and the exported document.
package canvas

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/shape"
)

// Style describes how a shape is painted.
// A nil color means that the corresponding part is not painted.
type Style struct {
	Stroke    color.Color
	Fill      color.Color
	LineWidth float64
}

// Painter is a surface which annotations can be drawn on.
// Coordinates use the screen convention: origin at the top left, y down.
type Painter interface {
	// Rectangle paints an axis-parallel rectangle.
	Rectangle(r shape.Rect, s Style)

	// Polyline strokes an open polyline.  Style.Fill is ignored.
	Polyline(pts []vec.Vec2, s Style)

	// Image draws img scaled to fill r.
	Image(r shape.Rect, img image.Image)
}
