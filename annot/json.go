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

package annot

import (
	"bytes"
	"encoding/json"
	"errors"

	"seehuhn.de/go/inkpdf/shape"
)

// The session file stores every annotation as an object with a "type" and
// an "info" field:
//
//	{"type": "highlight", "info": [x0, y0, x1, y1]}
//	{"type": "pencil", "info": [[x0, y0, x1, y1, 1], ...]}
//	{"type": "text", "info": null}
type record struct {
	Type Kind            `json:"type"`
	Info json.RawMessage `json:"info"`
}

// MarshalJSON implements the [json.Marshaler] interface.
// Pencil segments are always written as visible.
func (p Page) MarshalJSON() ([]byte, error) {
	recs := make([]record, len(p))
	for i, a := range p {
		var info any
		switch a := a.(type) {
		case *HighlightRect:
			r := a.Rect
			info = [4]float64{r.X0, r.Y0, r.X1, r.Y1}
		case *PencilStroke:
			segs := make([][5]float64, len(a.Segments))
			for j, s := range a.Segments {
				segs[j] = [5]float64{s.X0, s.Y0, s.X1, s.Y1, 1}
			}
			info = segs
		case *TextMark:
			info = nil
		default:
			return nil, &MalformedError{Index: i, Err: errUnknownKind}
		}
		raw, err := json.Marshal(info)
		if err != nil {
			return nil, err
		}
		recs[i] = record{Type: a.Kind(), Info: raw}
	}
	return json.Marshal(recs)
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
//
// Highlight rectangles are normalized and all pencil segments are made
// visible.  Annotations of unknown type, or highlight and pencil
// annotations without geometry, cause a [*MalformedError].
func (p *Page) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}

	res := make(Page, len(recs))
	for i, rec := range recs {
		a, err := decodeRecord(rec)
		if err != nil {
			return &MalformedError{Kind: rec.Type, Index: i, Err: err}
		}
		res[i] = a
	}
	*p = res
	return nil
}

func decodeRecord(rec record) (Annotation, error) {
	switch rec.Type {
	case Highlight:
		var coords []float64
		if err := json.Unmarshal(rec.Info, &coords); err != nil {
			return nil, err
		}
		if len(coords) == 0 {
			return nil, errNoGeometry
		}
		if len(coords) != 4 {
			return nil, errRectCoords
		}
		r := shape.Rect{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}
		return &HighlightRect{Rect: r.Normalize()}, nil

	case Pencil:
		var rows [][]float64
		if err := json.Unmarshal(rec.Info, &rows); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, errNoGeometry
		}
		segs := make([]Segment, len(rows))
		for j, row := range rows {
			if len(row) != 4 && len(row) != 5 {
				return nil, errSegmentCoords
			}
			segs[j] = Segment{X0: row[0], Y0: row[1], X1: row[2], Y1: row[3], Visible: true}
		}
		return &PencilStroke{Segments: segs}, nil

	case Text:
		return &TextMark{}, nil

	default:
		return nil, errUnknownKind
	}
}

var (
	errRectCoords    = errors.New("highlight needs 4 coordinates")
	errSegmentCoords = errors.New("pencil segment needs 4 coordinates and a visibility flag")
)
