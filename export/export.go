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

// Package export composes annotated pages into an output document.
//
// Every page of the output consists of three layers: the annotations of the
// kinds registered as [tool.Behind], the page background with its light
// pixels made transparent, and the annotations registered as [tool.Above].
// Annotations are recorded in canvas coordinates and are scaled to the
// pixel size of the page image.
package export

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/internal/logx"
	"seehuhn.de/go/inkpdf/shape"
	"seehuhn.de/go/inkpdf/tool"
)

// Page is one page of an output document.
// Coordinates are in page units, with the origin at the top left.
type Page interface {
	canvas.Painter
	Close() error
}

// Document is an output document.
type Document interface {
	// NewPage starts a new page of the given size.  The previous page must
	// be closed first.
	NewPage(width, height float64) (Page, error)

	// Save writes the document to the named file.
	Save(path string) error
}

// PageSource provides the background image for every page.
type PageSource interface {
	PageCount() int
	PageImage(i int) (image.Image, error)
}

// Extractor separates the foreground of a page image from its paper.
type Extractor interface {
	Foreground(img image.Image) *image.NRGBA
}

// Compositor renders annotated pages into documents.
type Compositor struct {
	Tools  *tool.Registry
	Source PageSource

	// Extractor, if non-nil, is applied to every page image before it is
	// placed on the page.
	Extractor Extractor

	// CanvasWidth and CanvasHeight give the size of the editing canvas
	// in which the annotations were recorded.
	CanvasWidth, CanvasHeight float64

	// NewDocument creates the output document for [Compositor.Export].
	NewDocument func() (Document, error)

	Log *logrus.Logger
}

var errNoDocument = errors.New("no document constructor")

// Compose appends one output page for every element of pages.
func (c *Compositor) Compose(doc Document, pages []annot.Page) error {
	log := logx.OrDiscard(c.Log)

	if n := c.Source.PageCount(); len(pages) > n {
		return fmt.Errorf("%d annotated pages but only %d page images", len(pages), n)
	}

	for i, pg := range pages {
		raw, err := c.Source.PageImage(i)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		var bg image.Image = raw
		if c.Extractor != nil {
			bg = c.Extractor.Foreground(raw)
		}

		b := bg.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		scale := 1 / shape.FitScale(c.CanvasWidth, c.CanvasHeight, w, h)
		m := matrix.Scale(scale, scale)

		out, err := doc.NewPage(w, h)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}

		behind, above, unknown := c.Tools.Split(pg)
		for _, a := range unknown {
			log.WithFields(logrus.Fields{
				"page": i,
				"kind": a.Kind(),
			}).Warn("skipping annotation of unknown kind")
		}

		c.draw(out, behind, m)
		out.Image(shape.Rect{X1: w, Y1: h}, bg)
		c.draw(out, above, m)

		err = out.Close()
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}

		log.WithFields(logrus.Fields{
			"page":  i,
			"scale": scale,
		}).Debug(annot.Summary(pg))
	}
	return nil
}

func (c *Compositor) draw(out Page, page annot.Page, m matrix.Matrix) {
	for _, a := range page {
		r, ok := c.Tools.Renderer(a.Kind())
		if !ok {
			continue
		}
		r.ExportRender(out, a, m)
	}
}

// Export composes pages into a new document and saves it to path.
func (c *Compositor) Export(path string, pages []annot.Page) error {
	if c.NewDocument == nil {
		return errNoDocument
	}
	doc, err := c.NewDocument()
	if err != nil {
		return err
	}

	err = c.Compose(doc, pages)
	if err != nil {
		return err
	}

	err = doc.Save(path)
	if err != nil {
		return err
	}

	logx.OrDiscard(c.Log).WithFields(logrus.Fields{
		"file":  path,
		"pages": len(pages),
	}).Info("document exported")
	return nil
}
