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
	"slices"
	"strconv"
	"strings"
)

// Page is the list of annotations on one page, in layer order.
// The first element is the oldest and lowest; the last element is on top.
type Page []Annotation

// Clone returns a deep copy of p.
func (p Page) Clone() Page {
	if p == nil {
		return nil
	}
	res := make(Page, len(p))
	for i, a := range p {
		res[i] = a.Clone()
	}
	return res
}

// Remove returns a new page without the annotations at the given indices.
// Indices outside the page are ignored.  The annotations are not copied.
func (p Page) Remove(indices ...int) Page {
	res := make(Page, 0, len(p))
	for i, a := range p {
		if !slices.Contains(indices, i) {
			res = append(res, a)
		}
	}
	return res
}

// Validate checks every annotation on the page, see [Validate].
func (p Page) Validate() error {
	for i, a := range p {
		if err := Validate(a); err != nil {
			err.(*MalformedError).Index = i
			return err
		}
	}
	return nil
}

// CountKinds returns the number of annotations of each kind.
func (p Page) CountKinds() map[Kind]int {
	res := make(map[Kind]int)
	for _, a := range p {
		res[a.Kind()]++
	}
	return res
}

// Summary describes the contents of a page in a short English phrase,
// for example "2 highlights and 1 pencil stroke".
// Kinds are listed in order of first appearance.
func Summary(p Page) string {
	if len(p) == 0 {
		return "no annotations"
	}

	var order []Kind
	count := make(map[Kind]int)
	for _, a := range p {
		k := a.Kind()
		if count[k] == 0 {
			order = append(order, k)
		}
		count[k]++
	}

	parts := make([]string, len(order))
	for i, k := range order {
		n := count[k]
		name := kindNoun[k]
		if name == "" {
			name = string(k) + " annotation"
		}
		if n != 1 {
			name += "s"
		}
		parts[i] = strconv.Itoa(n) + " " + name
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

var kindNoun = map[Kind]string{
	Highlight: "highlight",
	Pencil:    "pencil stroke",
	Text:      "text mark",
}
