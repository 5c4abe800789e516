// Package codec decodes and encodes canvas images in the standard
// container formats. Decoded images are normalized to the canonical
// tightly packed RGBA form the engine expects; encoding converts back
// through the stdlib and x/image codecs.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/dshills/pixelstorm/internal/engine/canvas"
)

// Format identifies a supported image container format.
type Format int

const (
	// FormatUnknown is the zero value for unrecognized formats.
	FormatUnknown Format = iota
	// FormatPNG is Portable Network Graphics.
	FormatPNG
	// FormatJPEG is JPEG/JFIF.
	FormatJPEG
	// FormatGIF is Graphics Interchange Format.
	FormatGIF
	// FormatBMP is Windows Bitmap.
	FormatBMP
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// FormatFromName resolves a format name as reported by image.Decode.
func FormatFromName(name string) Format {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG
	case "jpeg", "jpg":
		return FormatJPEG
	case "gif":
		return FormatGIF
	case "bmp":
		return FormatBMP
	default:
		return FormatUnknown
	}
}

// FormatFromPath resolves a format from a file extension.
func FormatFromPath(path string) Format {
	return FormatFromName(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Default encoding parameters.
const (
	DefaultJPEGQuality = 90
)

// Options configures encoding.
type Options struct {
	// JPEGQuality is the JPEG quality from 1 to 100. Zero selects
	// DefaultJPEGQuality. Other formats ignore it.
	JPEGQuality int
}

// Decode reads one image from r, sniffing the format via the stdlib
// registry, and normalizes it to the canonical RGBA form. The detected
// format is returned so a later save can default to it.
func Decode(r io.Reader) (*image.RGBA, Format, error) {
	src, name, err := image.Decode(r)
	if err != nil {
		return nil, FormatUnknown, &DecodeError{Err: err}
	}
	format := FormatFromName(name)
	if format == FormatUnknown {
		return nil, FormatUnknown, &DecodeError{Err: fmt.Errorf("unsupported format %q", name)}
	}
	return canvas.Normalize(src), format, nil
}

// DecodeFile opens and decodes an image file.
func DecodeFile(path string) (*image.RGBA, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FormatUnknown, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.Path = path
		}
		return nil, FormatUnknown, err
	}
	return img, format, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img *image.RGBA, format Format, opts Options) error {
	if err := canvas.Validate(img); err != nil {
		return &EncodeError{Format: format, Err: err}
	}

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if quality < 1 || quality > 100 {
			return &EncodeError{Format: format, Err: fmt.Errorf("jpeg quality %d out of range", quality)}
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatGIF:
		err = gif.Encode(w, img, nil)
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return &EncodeError{Format: format, Err: fmt.Errorf("unsupported format")}
	}

	if err != nil {
		return &EncodeError{Format: format, Err: err}
	}
	return nil
}

// EncodeFile writes img to path, deriving the format from the file
// extension.
func EncodeFile(path string, img *image.RGBA, opts Options) error {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return &EncodeError{Path: path, Err: fmt.Errorf("unrecognized extension %q", filepath.Ext(path))}
	}

	f, err := os.Create(path)
	if err != nil {
		return &EncodeError{Format: format, Path: path, Err: err}
	}

	if err := Encode(f, img, format, opts); err != nil {
		f.Close()
		var encErr *EncodeError
		if errors.As(err, &encErr) {
			encErr.Path = path
		}
		return err
	}

	if err := f.Close(); err != nil {
		return &EncodeError{Format: format, Path: path, Err: err}
	}
	return nil
}
