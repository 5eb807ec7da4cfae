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

// Package editor coordinates the annotation of a multi-page document.
//
// An [Editor] holds the annotations of the page being edited, the committed
// annotations of all pages, and the active tool.  Pointer events are
// forwarded to the tool; every completed gesture is committed to the
// session.  Navigating past the last page exports the document.
package editor

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/sirupsen/logrus"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/internal/logx"
	"seehuhn.de/go/inkpdf/session"
	"seehuhn.de/go/inkpdf/shape"
	"seehuhn.de/go/inkpdf/tool"
)

// Committer stores the annotations of a page.
// [*session.Manager] implements this interface.
type Committer interface {
	CommitPage(s *session.Session, page int, annots annot.Page) error
}

// Exporter writes the finished document.
type Exporter interface {
	Export(pages []annot.Page) error
}

// ExportFunc adapts a function to the [Exporter] interface.
type ExportFunc func(pages []annot.Page) error

// Export implements the [Exporter] interface.
func (f ExportFunc) Export(pages []annot.Page) error {
	return f(pages)
}

// Outcome is the result of a call to [Editor.Advance].
type Outcome int

// These are the possible outcomes of page navigation.
const (
	// Rejected means that the target page does not exist.
	Rejected Outcome = iota

	// Moved means that a different page is now being edited.
	Moved

	// Exported means that the document was passed to the exporter.
	Exported
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Moved:
		return "moved"
	case Exported:
		return "exported"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Default canvas size, in pixels.
const (
	DefaultCanvasWidth  = 721
	DefaultCanvasHeight = 1020
)

// ErrNoExporter is returned by [Editor.Advance] when the last page is
// passed and no exporter is configured.
var ErrNoExporter = errors.New("no exporter configured")

// Options configures a new [Editor].
type Options struct {
	// Session is the session to edit.  It is updated by the committer.
	Session *session.Session

	// Committer, if non-nil, receives the annotations of a page every
	// time they change.
	Committer Committer

	// Tools is the tool registry.  If this is nil,
	// tool.DefaultRegistry(nil) is used.
	Tools *tool.Registry

	Exporter Exporter
	Logger   *logrus.Logger

	// InitialTool is the tool which is active at the start.
	// If this is empty, no tool is selected.
	InitialTool annot.Kind

	// StartPage is the index of the first page to edit.
	StartPage int

	// CanvasWidth and CanvasHeight give the size of the editing area.
	// Background images are scaled to fit.
	CanvasWidth, CanvasHeight float64

	// OnChange, if set, is called whenever the page needs to be redrawn.
	OnChange func()
}

// Editor is the editing state for one session.
//
// An Editor is not safe for concurrent use.  All methods must be called
// from the goroutine which delivers the pointer events.
type Editor struct {
	sess      *session.Session
	committer Committer
	tools     *tool.Registry
	exporter  Exporter
	log       *logrus.Logger
	onChange  func()

	canvasWidth, canvasHeight float64

	page    int
	live    annot.Page
	history []annot.Page
	active  tool.Tool
}

// New returns an editor for opt.Session, positioned on opt.StartPage.
func New(opt *Options) (*Editor, error) {
	if opt == nil || opt.Session == nil {
		return nil, errors.New("no session")
	}
	n := opt.Session.PageCount()
	if n == 0 {
		return nil, fmt.Errorf("session %d has no pages", opt.Session.ID)
	}
	if opt.StartPage < 0 || opt.StartPage >= n {
		return nil, fmt.Errorf("start page %d: %w", opt.StartPage, session.ErrOutOfRange)
	}

	e := &Editor{
		sess:         opt.Session,
		committer:    opt.Committer,
		tools:        opt.Tools,
		exporter:     opt.Exporter,
		log:          logx.OrDiscard(opt.Logger),
		onChange:     opt.OnChange,
		canvasWidth:  opt.CanvasWidth,
		canvasHeight: opt.CanvasHeight,
		page:         opt.StartPage,
	}
	if e.tools == nil {
		e.tools = tool.DefaultRegistry(nil)
	}
	if e.canvasWidth <= 0 || e.canvasHeight <= 0 {
		e.canvasWidth, e.canvasHeight = DefaultCanvasWidth, DefaultCanvasHeight
	}

	e.history = make([]annot.Page, n)
	for i, p := range opt.Session.Pages {
		e.history[i] = p.Clone()
		if e.history[i] == nil {
			e.history[i] = annot.Page{}
		}
	}
	e.live = e.history[e.page].Clone()

	if opt.InitialTool != "" {
		err := e.SelectTool(opt.InitialTool)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SelectTool makes a new tool of the given kind the active tool.
// A gesture in progress is abandoned.
func (e *Editor) SelectTool(kind annot.Kind) error {
	t, err := e.tools.New(kind)
	if err != nil {
		return err
	}
	e.active = t
	e.log.WithField("tool", kind).Debug("tool selected")
	e.changed()
	return nil
}

// ClearTool deselects the active tool.  Without a tool, pointer events
// are ignored.
func (e *Editor) ClearTool() {
	e.active = nil
	e.changed()
}

// ActiveTool returns the kind of the active tool, or "" if no tool is
// selected.
func (e *Editor) ActiveTool() annot.Kind {
	if e.active == nil {
		return ""
	}
	return e.active.Kind()
}

// Press starts a gesture.
func (e *Editor) Press(p vec.Vec2, secondary bool) {
	if e.active == nil {
		return
	}
	e.active.Press(p, secondary)
}

// Move continues a gesture.
func (e *Editor) Move(p vec.Vec2, secondary bool) {
	if e.active == nil {
		return
	}
	if e.active.Move(p, &e.live, secondary) {
		e.changed()
	}
}

// Release ends a gesture.  If the gesture changed the current page, the
// page is committed.  If the page cannot be stored, the error is returned
// and the committed state is left unchanged.  The annotations on screen
// are kept.
func (e *Editor) Release(p vec.Vec2, secondary bool) error {
	if e.active == nil {
		return nil
	}
	modified := e.active.Release(p, &e.live, secondary)
	e.changed()
	if !modified {
		return nil
	}
	return e.commit()
}

// Advance moves delta pages forward, or backward for negative delta.
//
// The current page is committed first.  Moving before the first page is
// rejected.  Moving past the last page passes all pages to the exporter;
// the current page stays open for editing.  If an error is returned, the
// editor stays on the current page.
func (e *Editor) Advance(delta int) (Outcome, error) {
	err := e.commit()
	if err != nil {
		return Rejected, err
	}

	next := e.page + delta
	switch {
	case next < 0:
		e.log.WithField("page", next).Debug("navigation rejected")
		return Rejected, nil

	case next >= len(e.history):
		if e.exporter == nil {
			return Rejected, ErrNoExporter
		}
		e.log.WithField("pages", len(e.history)).Info("exporting")
		err := e.exporter.Export(e.History())
		if err != nil {
			return Rejected, fmt.Errorf("export: %w", err)
		}
		return Exported, nil
	}

	e.log.WithFields(logrus.Fields{
		"from": e.page,
		"to":   next,
	}).Infof("page %d: %s", next, annot.Summary(e.history[next]))

	e.page = next
	e.live = e.history[next].Clone()
	if e.active != nil {
		t, err := e.tools.New(e.active.Kind())
		if err == nil {
			e.active = t
		}
	}
	e.changed()
	return Moved, nil
}

// Render paints the current page onto c.
//
// The committed annotations are drawn first, with strokes about to be
// erased shown as ghosts.  The background is drawn on top, scaled to fit
// the canvas, so it should be transparent where the paper is.  Finally the
// shape of the gesture in progress is drawn.  If background is nil, only
// the annotations are drawn.
func (e *Editor) Render(c canvas.Painter, background image.Image) {
	var ghosts []int
	if e.active != nil {
		ghosts = e.active.Ghosts()
	}
	for i, a := range e.live {
		r, ok := e.tools.Renderer(a.Kind())
		if !ok {
			continue
		}
		r.Render(c, a, slices.Contains(ghosts, i))
	}

	if background != nil {
		b := background.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		if w > 0 && h > 0 {
			s := shape.FitScale(e.canvasWidth, e.canvasHeight, w, h)
			c.Image(shape.Rect{X1: w * s, Y1: h * s}, background)
		}
	}

	if e.active != nil {
		if cur := e.active.Current(); cur != nil {
			e.active.Render(c, cur, false)
		}
	}
}

// Live returns a copy of the annotations of the current page.
func (e *Editor) Live() annot.Page {
	return e.live.Clone()
}

// PageIndex returns the index of the current page.
func (e *Editor) PageIndex() int {
	return e.page
}

// PageCount returns the number of pages of the document.
func (e *Editor) PageCount() int {
	return len(e.history)
}

// History returns a copy of the committed annotations of all pages.
func (e *Editor) History() []annot.Page {
	res := make([]annot.Page, len(e.history))
	for i, p := range e.history {
		res[i] = p.Clone()
	}
	return res
}

// Session returns the session being edited.
func (e *Editor) Session() *session.Session {
	return e.sess
}

func (e *Editor) commit() error {
	if e.committer != nil {
		err := e.committer.CommitPage(e.sess, e.page, e.live)
		if err != nil {
			return err
		}
	}
	e.history[e.page] = e.live.Clone()
	return nil
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}
