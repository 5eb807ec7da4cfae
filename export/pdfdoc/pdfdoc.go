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

// Package pdfdoc writes exported pages as a PDF file.
//
// The pages use the screen coordinate convention of the annotation tools:
// the origin is the top-left corner of the page and y grows downwards.
// Translucent colors are implemented using constant alpha values in an
// extended graphics state.  Page images are embedded losslessly; if an
// image has an alpha channel, a soft mask is added.
package pdfdoc

import (
	"bytes"
	"errors"
	"image"
	gocolor "image/color"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"
	"seehuhn.de/go/pdf/graphics/extgstate"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/inkpdf/canvas"
	"seehuhn.de/go/inkpdf/export"
	"seehuhn.de/go/inkpdf/internal/atomicfile"
	"seehuhn.de/go/inkpdf/shape"
)

// DefaultProducer is recorded in the document metadata if
// Options.Producer is empty.
const DefaultProducer = "seehuhn.de/go/inkpdf"

// Options controls the metadata and format of the generated file.
type Options struct {
	// Title is the document title.  If this is empty, no title is
	// recorded.
	Title string

	// Producer names the program which wrote the file.
	Producer string

	// Version is the PDF version of the file.  The default is PDF 1.7.
	Version pdf.Version

	// Now, if set, is used instead of time.Now for the metadata dates.
	Now func() time.Time
}

var (
	errPageOpen = errors.New("previous page still open")
	errFinished = errors.New("document already written")
	errClosed   = errors.New("page already closed")
)

// Document is a PDF file under construction.
// The file is kept in memory until [Document.Save] or [Document.WriteTo]
// is called.
type Document struct {
	buf *bytes.Buffer
	doc *document.MultiPage

	open     *Page
	numPages int
	finished bool
}

var _ export.Document = (*Document)(nil)

// New starts a new, empty PDF document.
func New(opt *Options) (*Document, error) {
	var o Options
	if opt != nil {
		o = *opt
	}
	if o.Producer == "" {
		o.Producer = DefaultProducer
	}
	if o.Version == 0 {
		o.Version = pdf.V1_7
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	packet, err := metadata(&o)
	if err != nil {
		return nil, err
	}
	wOpt := &pdf.WriterOptions{
		DocumentMetadata: &pdf.MetadataStream{Data: packet, Plaintext: true},
	}

	d := &Document{buf: &bytes.Buffer{}}
	// The page size is set separately for every page.
	d.doc, err = document.WriteMultiPage(d.buf, nil, o.Version, wOpt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// NumPages returns the number of pages closed so far.
func (d *Document) NumPages() int {
	return d.numPages
}

// NewPage starts a new page of the given size in PDF units.
// This implements the [export.Document] interface.
func (d *Document) NewPage(width, height float64) (export.Page, error) {
	if d.finished {
		return nil, errFinished
	}
	if d.open != nil {
		return nil, errPageOpen
	}

	dp := d.doc.AddPage()
	dp.SetPageSize(&pdf.Rectangle{URx: width, URy: height})
	dp.Transform(matrix.Matrix{1, 0, 0, -1, 0, height})
	p := &Page{doc: d, p: dp}
	d.open = p
	return p, nil
}

// Save writes the PDF file to path.  The file is replaced atomically.
// This implements the [export.Document] interface.
func (d *Document) Save(path string) error {
	err := d.finish()
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, d.buf.Bytes(), 0o644)
}

// WriteTo writes the PDF file to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	err := d.finish()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(d.buf.Bytes())
	return int64(n), err
}

func (d *Document) finish() error {
	if d.finished {
		return nil
	}
	if d.open != nil {
		return errPageOpen
	}
	err := d.doc.Close()
	if err != nil {
		return err
	}
	d.finished = true
	return nil
}

// metadata builds the XMP packet for the document catalog.
func metadata(o *Options) (*xmp.Packet, error) {
	now := o.Now().Truncate(time.Second)

	dc := &xmp.DublinCore{}
	if o.Title != "" {
		dc.Title.Set(language.Und, o.Title)
	}
	basic := &xmp.Basic{
		CreateDate: xmp.NewDate(now, xmp.PrecisionSecond),
		ModifyDate: xmp.NewDate(now, xmp.PrecisionSecond),
	}
	pdfInfo := &xmp.PDF{
		Producer: xmp.NewAgentName(o.Producer),
	}
	mm := &xmp.MediaManagement{
		DocumentID: xmp.NewText("uuid:" + uuid.NewString()),
		InstanceID: xmp.NewText("uuid:" + uuid.NewString()),
	}

	packet := xmp.NewPacket()
	err := packet.Set(dc, basic, pdfInfo, mm)
	if err != nil {
		return nil, err
	}
	return packet, nil
}

// Page is a page of a [Document].
type Page struct {
	doc *Document
	p   *document.Page

	// err records the first failure while drawing.
	err error
}

var _ export.Page = (*Page)(nil)

// Rectangle implements the [canvas.Painter] interface.
func (p *Page) Rectangle(r shape.Rect, s canvas.Style) {
	if p.p == nil || (s.Stroke == nil && s.Fill == nil) {
		return
	}
	b := p.p
	b.PushGraphicsState()
	p.setStyle(s)
	b.Rectangle(r.X0, r.Y0, r.Dx(), r.Dy())
	switch {
	case s.Stroke != nil && s.Fill != nil:
		b.FillAndStroke()
	case s.Fill != nil:
		b.Fill()
	default:
		b.Stroke()
	}
	b.PopGraphicsState()
}

// Polyline implements the [canvas.Painter] interface.
func (p *Page) Polyline(pts []vec.Vec2, s canvas.Style) {
	if p.p == nil || s.Stroke == nil || len(pts) == 0 {
		return
	}
	b := p.p
	b.PushGraphicsState()
	p.setStyle(canvas.Style{Stroke: s.Stroke, LineWidth: s.LineWidth})
	b.SetLineCap(graphics.LineCapRound)
	b.SetLineJoin(graphics.LineJoinRound)
	b.MoveTo(pts[0].X, pts[0].Y)
	if len(pts) == 1 {
		// a single point is drawn as a dot
		b.LineTo(pts[0].X, pts[0].Y)
	}
	for _, q := range pts[1:] {
		b.LineTo(q.X, q.Y)
	}
	b.Stroke()
	b.PopGraphicsState()
}

// Image implements the [canvas.Painter] interface.
func (p *Page) Image(r shape.Rect, img image.Image) {
	if p.p == nil || img.Bounds().Empty() {
		return
	}
	xObj, err := pdfimage.PNG(img, nil)
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return
	}
	b := p.p
	b.PushGraphicsState()
	// The image occupies the unit square, with the first row at the top.
	b.Transform(matrix.Matrix{r.Dx(), 0, 0, -r.Dy(), r.X0, r.Y1})
	b.DrawXObject(xObj)
	b.PopGraphicsState()
}

// Close finishes the page and adds it to the document.
func (p *Page) Close() error {
	if p.p == nil {
		return errClosed
	}
	dp := p.p
	p.p = nil
	p.doc.open = nil
	if p.err != nil {
		return p.err
	}

	err := dp.Close()
	if err != nil {
		return err
	}
	p.doc.numPages++
	return nil
}

func (p *Page) setStyle(s canvas.Style) {
	b := p.p
	strokeAlpha, fillAlpha := 1.0, 1.0
	if s.Stroke != nil {
		var c color.Color
		c, strokeAlpha = deviceRGB(s.Stroke)
		b.SetStrokeColor(c)
		b.SetLineWidth(s.LineWidth)
	}
	if s.Fill != nil {
		var c color.Color
		c, fillAlpha = deviceRGB(s.Fill)
		b.SetFillColor(c)
	}
	if strokeAlpha < 1 || fillAlpha < 1 {
		b.SetExtGState(&extgstate.ExtGState{
			Set:         graphics.StateStrokeAlpha | graphics.StateFillAlpha,
			StrokeAlpha: strokeAlpha,
			FillAlpha:   fillAlpha,
			SingleUse:   true,
		})
	}
}

// deviceRGB converts c to a PDF color and a constant alpha value.
func deviceRGB(c gocolor.Color) (color.Color, float64) {
	n := gocolor.NRGBAModel.Convert(c).(gocolor.NRGBA)
	rgb := color.DeviceRGB{float64(n.R) / 255, float64(n.G) / 255, float64(n.B) / 255}
	return rgb, float64(n.A) / 255
}
