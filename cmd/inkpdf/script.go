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

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/editor"
)

// Script is a recorded sequence of editor events.
//
// Every event has exactly one action:
//
//	events:
//	  - tool: pencil        # or highlight, text, none
//	  - press: [10, 20]
//	  - move: [15, 25]
//	  - release: [20, 30]
//	  - press: [12, 22]
//	    secondary: true     # erase
//	  - release: [12, 22]
//	    secondary: true
//	  - advance: 1          # or -1
type Script struct {
	Events []Event `yaml:"events"`
}

// Event is one step of a [Script].
type Event struct {
	Tool      string    `yaml:"tool,omitempty"`
	Press     []float64 `yaml:"press,omitempty"`
	Move      []float64 `yaml:"move,omitempty"`
	Release   []float64 `yaml:"release,omitempty"`
	Secondary bool      `yaml:"secondary,omitempty"`
	Advance   int       `yaml:"advance,omitempty"`
}

// ScriptResult counts the navigation outcomes of a script run.
type ScriptResult struct {
	Moves    int
	Rejected int
	Exports  int
}

const noTool = "none"

var errNoAction = errors.New("event has no action")

func readScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := parseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseScript(data []byte) (*Script, error) {
	s := &Script{}
	err := yaml.Unmarshal(data, s)
	if err != nil {
		return nil, err
	}
	for i, ev := range s.Events {
		err := ev.check()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return s, nil
}

func (ev *Event) check() error {
	n := 0
	if ev.Tool != "" {
		n++
	}
	if ev.Advance != 0 {
		n++
	}
	for _, p := range [][]float64{ev.Press, ev.Move, ev.Release} {
		if p == nil {
			continue
		}
		if len(p) != 2 {
			return fmt.Errorf("point %v must have two coordinates", p)
		}
		n++
	}
	switch n {
	case 0:
		return errNoAction
	case 1:
		return nil
	default:
		return fmt.Errorf("event has %d actions", n)
	}
}

func point(p []float64) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}

// Run applies the events to ed.  It stops at the first error.
func (s *Script) Run(ed *editor.Editor) (*ScriptResult, error) {
	res := &ScriptResult{}
	for i, ev := range s.Events {
		var err error
		switch {
		case ev.Tool == noTool:
			ed.ClearTool()
		case ev.Tool != "":
			err = ed.SelectTool(annot.Kind(ev.Tool))
		case ev.Press != nil:
			ed.Press(point(ev.Press), ev.Secondary)
		case ev.Move != nil:
			ed.Move(point(ev.Move), ev.Secondary)
		case ev.Release != nil:
			err = ed.Release(point(ev.Release), ev.Secondary)
		case ev.Advance != 0:
			var out editor.Outcome
			out, err = ed.Advance(ev.Advance)
			if err == nil {
				switch out {
				case editor.Moved:
					res.Moves++
				case editor.Rejected:
					res.Rejected++
				case editor.Exported:
					res.Exports++
				}
			}
		}
		if err != nil {
			return res, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return res, nil
}
