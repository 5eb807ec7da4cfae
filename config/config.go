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

// Package config holds the settings of the inkpdf tools.
//
// Settings are taken from the built-in defaults, optionally overridden by a
// YAML file and then by environment variables with the prefix INKPDF_, for
// example INKPDF_THRESHOLD=120 or INKPDF_STORE_DRIVER=sqlite.  Variables
// without the prefix are never consulted.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/inkpdf/annot"
	"seehuhn.de/go/inkpdf/editor"
	"seehuhn.de/go/inkpdf/raster"
	"seehuhn.de/go/inkpdf/session/jsonstore"
	"seehuhn.de/go/inkpdf/shape"
	"seehuhn.de/go/inkpdf/tool"
)

// EnvPrefix is the prefix of all environment variables read by [Load].
const EnvPrefix = "INKPDF"

// Session store drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the complete configuration.
type Config struct {
	Canvas CanvasConfig `yaml:"canvas" split_words:"true"`

	// Threshold is the luminance above which page pixels are treated as
	// paper and made transparent.
	Threshold int `yaml:"threshold" split_words:"true"`

	// Quality scales the page images before export.
	Quality float64 `yaml:"quality" split_words:"true"`

	EraseOffset    float64 `yaml:"erase_offset" split_words:"true"`
	SlopeTolerance float64 `yaml:"slope_tolerance" split_words:"true"`

	Store StoreConfig `yaml:"store" split_words:"true"`

	// Output is the file name of exported documents.
	Output string `yaml:"output" split_words:"true"`

	InitialTool string `yaml:"initial_tool" split_words:"true"`

	// Layers overrides the export layer ("behind" or "above") per
	// annotation kind.
	Layers map[string]string `yaml:"layers" split_words:"true"`

	LogLevel string `yaml:"log_level" split_words:"true"`
}

// CanvasConfig is the size of the editing canvas in pixels.
type CanvasConfig struct {
	Width  float64 `yaml:"width" split_words:"true"`
	Height float64 `yaml:"height" split_words:"true"`
}

// StoreConfig selects where sessions are kept.
type StoreConfig struct {
	Driver string `yaml:"driver" split_words:"true"`
	Path   string `yaml:"path" split_words:"true"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  editor.DefaultCanvasWidth,
			Height: editor.DefaultCanvasHeight,
		},
		Threshold:      raster.DefaultThreshold,
		Quality:        raster.DefaultQuality,
		EraseOffset:    shape.DefaultEraseOffset,
		SlopeTolerance: shape.DefaultSlopeTolerance,
		Store: StoreConfig{
			Driver: DriverJSON,
			Path:   jsonstore.DefaultPath,
		},
		Output:      "exported.pdf",
		InitialTool: string(annot.Highlight),
		LogLevel:    "info",
	}
}

// Load reads the configuration.  If path is non-empty, the YAML file is
// read on top of the defaults.  Environment variables are applied last.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all settings are usable.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		add("invalid canvas size %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		add("threshold %d not in range 0-255", c.Threshold)
	}
	if c.Quality <= 0 {
		add("quality must be positive, not %g", c.Quality)
	}
	if c.EraseOffset <= 0 {
		add("erase offset must be positive, not %g", c.EraseOffset)
	}
	if c.SlopeTolerance < 0 {
		add("negative slope tolerance %g", c.SlopeTolerance)
	}

	switch c.Store.Driver {
	case DriverJSON, DriverSQLite:
	default:
		add("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Path == "" {
		add("missing store path")
	}
	if c.Output == "" {
		add("missing output file name")
	}

	tools := tool.DefaultRegistry(nil)
	if c.InitialTool != "" {
		if _, ok := tools.Lookup(annot.Kind(c.InitialTool)); !ok {
			add("unknown initial tool %q", c.InitialTool)
		}
	}
	for kind, layer := range c.Layers {
		if _, ok := tools.Lookup(annot.Kind(kind)); !ok {
			add("layer for unknown tool %q", kind)
		}
		if _, err := tool.ParseLayer(layer); err != nil {
			add("tool %q: %w", kind, err)
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Tools returns the tool registry described by c.
func (c *Config) Tools() (*tool.Registry, error) {
	r := tool.DefaultRegistry(&tool.Options{
		EraseOffset:    c.EraseOffset,
		SlopeTolerance: c.SlopeTolerance,
	})
	for kind, name := range c.Layers {
		l, err := tool.ParseLayer(name)
		if err != nil {
			return nil, err
		}
		err = r.SetLayer(annot.Kind(kind), l)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Extractor returns the background extractor described by c.
func (c *Config) Extractor() *raster.Extractor {
	return &raster.Extractor{
		Threshold: uint8(c.Threshold),
		Quality:   c.Quality,
	}
}

// Level returns the log level.  Invalid levels map to Info.
func (c *Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}
