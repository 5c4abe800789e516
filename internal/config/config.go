// Package config loads and validates Pixelstorm configuration from
// TOML files. A missing config file is not an error; defaults apply.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EditorConfig controls editing behavior.
type EditorConfig struct {
	// MaxUndoDepth caps the undo history. Out-of-range values are
	// clamped to the engine's supported range.
	MaxUndoDepth int `toml:"max_undo_depth"`
}

// BrushConfig sets the freehand drawing defaults.
type BrushConfig struct {
	// Color is the brush color in #RRGGBB or #RRGGBBAA form.
	Color string `toml:"color"`
	// Width is the brush diameter in pixels.
	Width int `toml:"width"`
}

// ViewConfig controls the interactive viewer.
type ViewConfig struct {
	// ZoomStep is the multiplier applied per zoom in/out.
	ZoomStep float64 `toml:"zoom_step"`
	// MinZoom is the smallest allowed zoom factor.
	MinZoom float64 `toml:"min_zoom"`
	// MaxZoom is the largest allowed zoom factor.
	MaxZoom float64 `toml:"max_zoom"`
}

// EncodeConfig controls image saving.
type EncodeConfig struct {
	// JPEGQuality is the quality used when saving JPEG files (1-100).
	JPEGQuality int `toml:"jpeg_quality"`
}

// ServerConfig controls the HTTP preview server.
type ServerConfig struct {
	// Addr is the listen address for the serve command.
	Addr string `toml:"addr"`
}

// Config is the full configuration snapshot.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Brush  BrushConfig  `toml:"brush"`
	View   ViewConfig   `toml:"view"`
	Encode EncodeConfig `toml:"encode"`
	Server ServerConfig `toml:"server"`
}

// Default configuration values.
const (
	DefaultMaxUndoDepth = 50
	DefaultBrushColor   = "#000000"
	DefaultBrushWidth   = 4
	DefaultZoomStep     = 1.25
	DefaultMinZoom      = 0.05
	DefaultMaxZoom      = 32.0
	DefaultJPEGQuality  = 90
	DefaultServerAddr   = ":8140"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{MaxUndoDepth: DefaultMaxUndoDepth},
		Brush:  BrushConfig{Color: DefaultBrushColor, Width: DefaultBrushWidth},
		View: ViewConfig{
			ZoomStep: DefaultZoomStep,
			MinZoom:  DefaultMinZoom,
			MaxZoom:  DefaultMaxZoom,
		},
		Encode: EncodeConfig{JPEGQuality: DefaultJPEGQuality},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads configuration from path. A missing file returns the
// defaults, not an error. Values present in the file override the
// defaults; everything is validated and clamped afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadReader reads configuration from an io.Reader.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values to usable ones rather than
// failing the load.
func (c *Config) normalize() {
	if c.Editor.MaxUndoDepth < 1 {
		c.Editor.MaxUndoDepth = DefaultMaxUndoDepth
	}
	if c.Brush.Width < 1 {
		c.Brush.Width = DefaultBrushWidth
	}
	if c.Brush.Color == "" {
		c.Brush.Color = DefaultBrushColor
	}
	if c.View.ZoomStep <= 1 {
		c.View.ZoomStep = DefaultZoomStep
	}
	if c.View.MinZoom <= 0 {
		c.View.MinZoom = DefaultMinZoom
	}
	if c.View.MaxZoom < c.View.MinZoom {
		c.View.MaxZoom = DefaultMaxZoom
	}
	if c.Encode.JPEGQuality < 1 || c.Encode.JPEGQuality > 100 {
		c.Encode.JPEGQuality = DefaultJPEGQuality
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}
