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

package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/inkpdf/export/pdfdoc"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	fd, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	err = png.Encode(fd, img)
	if err != nil {
		t.Fatal(err)
	}
	err = fd.Close()
	if err != nil {
		t.Fatal(err)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page-2.png"), 20, 10)
	writePNG(t, filepath.Join(dir, "page-1.PNG"), 10, 20)
	err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.Mkdir(filepath.Join(dir, "sub.png"), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	d, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if d.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", d.PageCount())
	}

	var sizes []image.Point
	for i := range d.PageCount() {
		img, err := d.PageImage(i)
		if err != nil {
			t.Fatal(err)
		}
		sizes = append(sizes, img.Bounds().Size())
	}
	want := []image.Point{{X: 10, Y: 20}, {X: 20, Y: 10}}
	if d := cmp.Diff(want, sizes); d != "" {
		t.Errorf("page sizes (-want +got)\n%s", d)
	}

	for _, i := range []int{-1, 2} {
		if _, err := d.PageImage(i); err == nil {
			t.Errorf("PageImage(%d) succeeded", i)
		}
	}
}

func TestDirEmpty(t *testing.T) {
	_, err := OpenDir(t.TempDir())
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("got %v, want ErrNoPages", err)
	}
}

func TestDirCorrupt(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("not a png"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	d, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.PageImage(0); err == nil {
		t.Error("decoding a corrupt file succeeded")
	}
}

func TestCountPDFPages(t *testing.T) {
	doc, err := pdfdoc.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		p, err := doc.NewPage(100, 100)
		if err != nil {
			t.Fatal(err)
		}
		err = p.Close()
		if err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "in.pdf")
	err = doc.Save(path)
	if err != nil {
		t.Fatal(err)
	}

	n, err := CountPDFPages(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("CountPDFPages() = %d, want 3", n)
	}

	_, err = CountPDFPages(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Error("counting pages of a missing file succeeded")
	}
}
