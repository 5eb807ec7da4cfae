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

// Package source provides the page images of a document.
package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// ErrNoPages is returned by [OpenDir] if a directory has no page images.
var ErrNoPages = errors.New("no page images found")

var imageExt = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Dir serves page images from a directory.
// The files are used in lexicographic order of their names, so names
// like "page-001.png" work best.
type Dir struct {
	files []string
}

// OpenDir collects the image files in dir.
func OpenDir(dir string) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(imageExt, ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPages)
	}
	slices.Sort(files)
	return &Dir{files: files}, nil
}

// PageCount returns the number of page images.
func (d *Dir) PageCount() int {
	return len(d.files)
}

// PageImage decodes the image for page i.
func (d *Dir) PageImage(i int) (image.Image, error) {
	if i < 0 || i >= len(d.files) {
		return nil, fmt.Errorf("page %d of %d: index out of range", i, len(d.files))
	}

	fd, err := os.Open(d.files[i])
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.files[i], err)
	}
	return img, nil
}

// File returns the name of the image file for page i.
func (d *Dir) File(i int) string {
	return d.files[i]
}

// CountPDFPages returns the number of pages of a PDF file.
func CountPDFPages(path string) (int, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
