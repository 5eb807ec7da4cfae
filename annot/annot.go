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

// Package annot implements the annotation model: the annotations a user
// draws on one page, and the ordered list of annotations forming a page.
package annot

import (
	"errors"
	"fmt"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/shape"
)

// Kind identifies an annotation type.
// The values are used as the "type" field in session files.
type Kind string

// These are the annotation kinds known to the engine.
const (
	Highlight Kind = "highlight"
	Pencil    Kind = "pencil"
	Text      Kind = "text"
)

// Annotation is a single annotation on a page.
type Annotation interface {
	// Kind returns the tool kind which created the annotation.
	Kind() Kind

	// Clone returns a deep copy of the annotation.
	Clone() Annotation
}

var (
	_ Annotation = (*HighlightRect)(nil)
	_ Annotation = (*PencilStroke)(nil)
	_ Annotation = (*TextMark)(nil)
)

// HighlightRect is a highlighted, axis-parallel rectangle.
// The rectangle is always normalized.
type HighlightRect struct {
	Rect shape.Rect
}

// Kind implements the [Annotation] interface.
func (h *HighlightRect) Kind() Kind { return Highlight }

// Clone implements the [Annotation] interface.
func (h *HighlightRect) Clone() Annotation {
	c := *h
	return &c
}

// Segment is one line segment of a freehand stroke.
//
// Visible is false only while the stroke is shown as an erase preview.
// Strokes stored in a page always have all segments visible.
type Segment struct {
	X0, Y0, X1, Y1 float64
	Visible        bool
}

// A returns the start point of the segment.
func (s Segment) A() vec.Vec2 { return vec.Vec2{X: s.X0, Y: s.Y0} }

// B returns the end point of the segment.
func (s Segment) B() vec.Vec2 { return vec.Vec2{X: s.X1, Y: s.Y1} }

// PencilStroke is a freehand polyline.
type PencilStroke struct {
	Segments []Segment
}

// NewPencilStroke builds a stroke through the given points.
// Consecutive points are joined by segments, and a final zero-length
// segment is placed at the last point.
func NewPencilStroke(pts []vec.Vec2) *PencilStroke {
	if len(pts) == 0 {
		return &PencilStroke{}
	}
	segs := make([]Segment, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		segs = append(segs, Segment{
			X0: pts[i-1].X, Y0: pts[i-1].Y,
			X1: pts[i].X, Y1: pts[i].Y,
			Visible: true,
		})
	}
	last := pts[len(pts)-1]
	segs = append(segs, Segment{X0: last.X, Y0: last.Y, X1: last.X, Y1: last.Y, Visible: true})
	return &PencilStroke{Segments: segs}
}

// Kind implements the [Annotation] interface.
func (p *PencilStroke) Kind() Kind { return Pencil }

// Clone implements the [Annotation] interface.
func (p *PencilStroke) Clone() Annotation {
	return &PencilStroke{Segments: slices.Clone(p.Segments)}
}

// Points returns the vertices of the stroke, in drawing order.
func (p *PencilStroke) Points() []vec.Vec2 {
	if len(p.Segments) == 0 {
		return nil
	}
	res := make([]vec.Vec2, 0, len(p.Segments)+1)
	for _, s := range p.Segments {
		res = append(res, s.A())
	}
	if last := p.Segments[len(p.Segments)-1]; last.A() != last.B() {
		res = append(res, last.B())
	}
	return res
}

// TextMark is a placeholder for text annotations.
// It carries no geometry.
type TextMark struct{}

// Kind implements the [Annotation] interface.
func (t *TextMark) Kind() Kind { return Text }

// Clone implements the [Annotation] interface.
func (t *TextMark) Clone() Annotation { return &TextMark{} }

// Validate checks that a has the geometry its kind requires:
// highlight rectangles must be normalized, and pencil strokes must have at
// least one segment.
func Validate(a Annotation) error {
	switch a := a.(type) {
	case *HighlightRect:
		if !a.Rect.IsNormalized() {
			return &MalformedError{Kind: Highlight, Index: -1, Err: errNotNormalized}
		}
	case *PencilStroke:
		if len(a.Segments) == 0 {
			return &MalformedError{Kind: Pencil, Index: -1, Err: errNoGeometry}
		}
	case *TextMark:
	case nil:
		return &MalformedError{Index: -1, Err: errNoGeometry}
	default:
		return &MalformedError{Kind: a.Kind(), Index: -1, Err: errUnknownKind}
	}
	return nil
}

var (
	errNoGeometry    = errors.New("empty geometry")
	errNotNormalized = errors.New("rectangle is not normalized")
	errUnknownKind   = errors.New("unknown annotation type")
)

// MalformedError indicates that an annotation could not be decoded or has
// invalid geometry.
type MalformedError struct {
	Kind  Kind
	Index int // position in the page, or -1 if unknown
	Err   error
}

func (err *MalformedError) Error() string {
	msg := "malformed annotation"
	if err.Kind != "" {
		msg = "malformed " + string(err.Kind) + " annotation"
	}
	if err.Index >= 0 {
		msg += fmt.Sprintf(" #%d", err.Index)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *MalformedError) Unwrap() error {
	return err.Err
}
