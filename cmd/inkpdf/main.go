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

// Inkpdf manages annotation sessions for scanned or rendered documents.
//
// Page images are read from a directory (one image per page, in name
// order).  Annotations are stored in a session file and can be exported
// into a PDF file, where highlights are placed behind the page text and
// pencil strokes on top of it.
//
// Usage:
//
//	inkpdf new [--pages n] source
//	inkpdf list
//	inkpdf delete id
//	inkpdf export --images dir id
//	inkpdf preview --images dir [--page n] --output file.png id
//	inkpdf replay --images dir id script.yaml
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/config"
	"seehuhn.de/go/inkpdf/editor"
	"seehuhn.de/go/inkpdf/export"
	"seehuhn.de/go/inkpdf/export/pdfdoc"
	"seehuhn.de/go/inkpdf/internal/atomicfile"
	"seehuhn.de/go/inkpdf/preview"
	"seehuhn.de/go/inkpdf/session"
	"seehuhn.de/go/inkpdf/session/jsonstore"
	"seehuhn.de/go/inkpdf/session/sqlitestore"
	"seehuhn.de/go/inkpdf/source"
)

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "inkpdf:", err)
		os.Exit(1)
	}
}

// env is the state shared by all commands.
type env struct {
	cfg    *config.Config
	log    *logrus.Logger
	store  session.Store
	closer io.Closer
	mgr    *session.Manager
}

func newApp() *cli.App {
	e := &env{}
	return &cli.App{
		Name:  "inkpdf",
		Usage: "highlight and draw on document pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from `FILE`",
				EnvVars: []string{"INKPDF_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level",
			},
		},
		Before: e.setup,
		After:  e.close,
		Commands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "start a session for a document",
				ArgsUsage: "source",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pages",
						Usage: "number of pages (default: count the pages of the source)",
					},
				},
				Action: e.newSession,
			},
			{
				Name:   "list",
				Usage:  "list all sessions",
				Action: e.list,
			},
			{
				Name:      "delete",
				Usage:     "delete a session",
				ArgsUsage: "id",
				Action:    e.delete,
			},
			{
				Name:      "export",
				Usage:     "write the annotated document as PDF",
				ArgsUsage: "id",
				Flags: []cli.Flag{
					imagesFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file (default from the configuration)",
					},
				},
				Action: e.export,
			},
			{
				Name:      "preview",
				Usage:     "render one annotated page as PNG",
				ArgsUsage: "id",
				Flags: []cli.Flag{
					imagesFlag(),
					&cli.IntFlag{
						Name:  "page",
						Usage: "page number, starting at 1",
						Value: 1,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "PNG file to write",
						Required: true,
					},
				},
				Action: e.preview,
			},
			{
				Name:      "replay",
				Usage:     "apply a recorded sequence of pointer events",
				ArgsUsage: "id script.yaml",
				Flags: []cli.Flag{
					imagesFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file for exports (default from the configuration)",
					},
				},
				Action: e.replay,
			},
		},
	}
}

func imagesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "images",
		Aliases:  []string{"i"},
		Usage:    "directory with one image per page",
		Required: true,
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	e.cfg = cfg
	e.log = newLogger(os.Stderr, cfg.Level())

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		st, err := sqlitestore.Open(cfg.Store.Path, e.log)
		if err != nil {
			return err
		}
		e.store, e.closer = st, st
	default:
		e.store = jsonstore.New(cfg.Store.Path, e.log)
	}
	e.mgr = session.NewManager(e.store, e.log)
	return nil
}

func (e *env) close(c *cli.Context) error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func newLogger(w *os.File, level logrus.Level) *logrus.Logger {
	isTerm := term.IsTerminal(int(w.Fd()))
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   isTerm,
		DisableColors: !isTerm,
		FullTimestamp: true,
	})
	return logger
}

func (e *env) newSession(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: inkpdf new [--pages n] source", 2)
	}
	src := c.Args().First()

	n := c.Int("pages")
	if n == 0 {
		var err error
		n, err = countPages(src)
		if err != nil {
			return err
		}
	}

	s, err := e.mgr.Create(src, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d\n", s.ID)
	return nil
}

// countPages returns the number of pages of a PDF file or of a directory
// of page images.
func countPages(src string) (int, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		d, err := source.OpenDir(src)
		if err != nil {
			return 0, err
		}
		return d.PageCount(), nil
	}
	return source.CountPDFPages(src)
}

func (e *env) list(c *cli.Context) error {
	all, err := e.mgr.List()
	if err != nil {
		return err
	}
	for _, s := range all {
		var total annot.Page
		for _, p := range s.Pages {
			total = append(total, p...)
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%d pages\t%s\n",
			s.ID, s.SourceFile, s.PageCount(), annot.Summary(total))
	}
	return nil
}

func (e *env) delete(c *cli.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	return e.mgr.Delete(id)
}

func sessionID(c *cli.Context) (int, error) {
	if c.NArg() < 1 {
		return 0, cli.Exit("missing session id", 2)
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("invalid session id %q", c.Args().First()), 2)
	}
	return id, nil
}

// compositor returns an export compositor for the page images in dir.
func (e *env) compositor(dir string, s *session.Session) (*export.Compositor, error) {
	pages, err := source.OpenDir(dir)
	if err != nil {
		return nil, err
	}
	tools, err := e.cfg.Tools()
	if err != nil {
		return nil, err
	}
	title := filepath.Base(s.SourceFile)
	return &export.Compositor{
		Tools:        tools,
		Source:       pages,
		Extractor:    e.cfg.Extractor(),
		CanvasWidth:  e.cfg.Canvas.Width,
		CanvasHeight: e.cfg.Canvas.Height,
		NewDocument: func() (export.Document, error) {
			return pdfdoc.New(&pdfdoc.Options{Title: title})
		},
		Log: e.log,
	}, nil
}

func (e *env) output(c *cli.Context) string {
	if out := c.String("output"); out != "" {
		return out
	}
	return e.cfg.Output
}

func (e *env) export(c *cli.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	s, err := e.mgr.Load(id)
	if err != nil {
		return err
	}
	comp, err := e.compositor(c.String("images"), s)
	if err != nil {
		return err
	}
	return comp.Export(e.output(c), s.Pages)
}

func (e *env) preview(c *cli.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	s, err := e.mgr.Load(id)
	if err != nil {
		return err
	}
	pages, err := source.OpenDir(c.String("images"))
	if err != nil {
		return err
	}
	tools, err := e.cfg.Tools()
	if err != nil {
		return err
	}

	page := c.Int("page") - 1
	ed, err := editor.New(&editor.Options{
		Session:      s,
		Tools:        tools,
		Logger:       e.log,
		StartPage:    page,
		CanvasWidth:  e.cfg.Canvas.Width,
		CanvasHeight: e.cfg.Canvas.Height,
	})
	if err != nil {
		return err
	}

	raw, err := pages.PageImage(page)
	if err != nil {
		return err
	}
	bg := e.cfg.Extractor().Foreground(raw)

	w, h, _ := preview.Fit(bg, e.cfg.Canvas.Width, e.cfg.Canvas.Height)
	surf := preview.NewSurface(w, h)
	ed.Render(surf, bg)
	return writePNG(c.String("output"), surf)
}

func writePNG(path string, surf *preview.Surface) error {
	buf := &bytes.Buffer{}
	err := surf.WritePNG(buf)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, buf.Bytes(), 0o644)
}

func (e *env) replay(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: inkpdf replay --images dir id script.yaml", 2)
	}
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	script, err := readScript(c.Args().Get(1))
	if err != nil {
		return err
	}

	s, err := e.mgr.Load(id)
	if err != nil {
		return err
	}
	comp, err := e.compositor(c.String("images"), s)
	if err != nil {
		return err
	}
	out := e.output(c)

	ed, err := editor.New(&editor.Options{
		Session:   s,
		Committer: e.mgr,
		Tools:     comp.Tools,
		Exporter: editor.ExportFunc(func(pages []annot.Page) error {
			return comp.Export(out, pages)
		}),
		Logger:       e.log,
		InitialTool:  annot.Kind(e.cfg.InitialTool),
		CanvasWidth:  e.cfg.Canvas.Width,
		CanvasHeight: e.cfg.Canvas.Height,
	})
	if err != nil {
		return err
	}

	res, err := script.Run(ed)
	if err != nil {
		var perr *session.PersistenceError
		if errors.As(err, &perr) {
			e.log.WithError(perr.Err).Error("session not saved")
		}
		return err
	}
	fmt.Fprintf(c.App.Writer, "page %d of %d, %d exports\n",
		ed.PageIndex()+1, ed.PageCount(), res.Exports)
	return nil
}
