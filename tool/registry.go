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

package tool

import (
	"errors"
	"fmt"
	"slices"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/shape"
)

// Layer says whether annotations of a kind are placed behind or above the
// page background in exported documents.
type Layer int

// These are the supported export layers.
const (
	Behind Layer = iota
	Above
)

func (l Layer) String() string {
	switch l {
	case Behind:
		return "behind"
	case Above:
		return "above"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// ParseLayer converts "behind" or "above" to a [Layer].
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "behind":
		return Behind, nil
	case "above":
		return Above, nil
	default:
		return 0, fmt.Errorf("invalid layer %q", s)
	}
}

// Entry describes one registered tool.
type Entry struct {
	New   func() Tool
	Layer Layer
}

// Registry maps annotation kinds to tools.
type Registry struct {
	entries map[annot.Kind]Entry
}

// Options configures the tools created by [DefaultRegistry].
type Options struct {
	EraseOffset    float64
	SlopeTolerance float64
}

var defaultOptions = &Options{
	EraseOffset:    shape.DefaultEraseOffset,
	SlopeTolerance: shape.DefaultSlopeTolerance,
}

// ErrUnknownKind is returned when no tool is registered for a kind.
var ErrUnknownKind = errors.New("unknown annotation kind")

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[annot.Kind]Entry)}
}

// DefaultRegistry returns a registry with the highlighter, pencil and text
// tools.  Highlights are exported behind the page background, everything
// else above it.  If opt is nil, default tolerances are used.
func DefaultRegistry(opt *Options) *Registry {
	if opt == nil {
		opt = defaultOptions
	}
	r := NewRegistry()
	r.Register(annot.Highlight, Entry{
		New:   func() Tool { return NewHighlighter() },
		Layer: Behind,
	})
	r.Register(annot.Pencil, Entry{
		New: func() Tool {
			return &Pencil{Offset: opt.EraseOffset, SlopeTolerance: opt.SlopeTolerance}
		},
		Layer: Above,
	})
	r.Register(annot.Text, Entry{
		New:   func() Tool { return TextTool{} },
		Layer: Above,
	})
	return r
}

// Register adds or replaces the tool for kind.
func (r *Registry) Register(kind annot.Kind, e Entry) {
	r.entries[kind] = e
}

// Lookup returns the entry for kind.
func (r *Registry) Lookup(kind annot.Kind) (Entry, bool) {
	e, ok := r.entries[kind]
	return e, ok
}

// SetLayer changes the export layer of a registered kind.
func (r *Registry) SetLayer(kind annot.Kind, l Layer) error {
	e, ok := r.entries[kind]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	e.Layer = l
	r.entries[kind] = e
	return nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []annot.Kind {
	res := make([]annot.Kind, 0, len(r.entries))
	for k := range r.entries {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// New creates a fresh tool for kind.
func (r *Registry) New(kind annot.Kind) (Tool, error) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return e.New(), nil
}

// Renderer returns a tool which can paint annotations of the given kind.
// The second return value is false if the kind is not registered.
func (r *Registry) Renderer(kind annot.Kind) (Tool, bool) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, false
	}
	return e.New(), true
}

// Split separates the annotations of a page by export layer.  Annotations
// of unregistered kinds are returned in the third slice.  The relative order
// within each slice is preserved.
func (r *Registry) Split(page annot.Page) (behind, above, unknown annot.Page) {
	for _, a := range page {
		e, ok := r.entries[a.Kind()]
		switch {
		case !ok:
			unknown = append(unknown, a)
		case e.Layer == Behind:
			behind = append(behind, a)
		default:
			above = append(above, a)
		}
	}
	return behind, above, unknown
}
