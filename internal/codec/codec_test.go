package codec

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/pixelstorm/internal/engine/canvas"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"photo.png", FormatPNG},
		{"photo.PNG", FormatPNG},
		{"photo.jpg", FormatJPEG},
		{"photo.jpeg", FormatJPEG},
		{"anim.gif", FormatGIF},
		{"scan.bmp", FormatBMP},
		{"doc.txt", FormatUnknown},
		{"noext", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := canvas.Uniform(8, 6, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	src.SetRGBA(3, 2, color.RGBA{R: 250, G: 5, B: 120, A: 255})

	// Lossless formats round-trip exactly.
	for _, format := range []Format{FormatPNG, FormatBMP} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format, Options{}); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, detected, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if detected != format {
				t.Errorf("detected format = %s, want %s", detected, format)
			}
			if !canvas.Equal(got, src) {
				t.Error("round trip changed pixel data")
			}
		})
	}
}

func TestEncodeDecodeJPEG(t *testing.T) {
	src := canvas.Uniform(16, 16, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	var buf bytes.Buffer
	if err := Encode(&buf, src, FormatJPEG, Options{JPEGQuality: 95}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, detected, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if detected != FormatJPEG {
		t.Errorf("detected format = %s, want jpeg", detected)
	}
	if w, h := got.Rect.Dx(), got.Rect.Dy(); w != 16 || h != 16 {
		t.Errorf("decoded size %dx%d, want 16x16", w, h)
	}
}

func TestEncodeDecodeGIF(t *testing.T) {
	src := canvas.Uniform(4, 4, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := Encode(&buf, src, FormatGIF, Options{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, detected, err := Decode(&buf); err != nil || detected != FormatGIF {
		t.Fatalf("Decode = (%s, %v), want gif", detected, err)
	}
}

func TestDecodeCorruptData(t *testing.T) {
	_, _, err := Decode(strings.NewReader("not an image at all"))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Decode(garbage) = %v, want *DecodeError", err)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, _, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecodeFile(missing) = %v, want *DecodeError", err)
	}
	if decErr.Path == "" {
		t.Error("DecodeError.Path not set")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("DecodeError does not unwrap to os.ErrNotExist")
	}
}

func TestEncodeErrors(t *testing.T) {
	src := canvas.Uniform(4, 4, color.RGBA{A: 255})

	var buf bytes.Buffer
	var encErr *EncodeError
	if err := Encode(&buf, src, FormatUnknown, Options{}); !errors.As(err, &encErr) {
		t.Errorf("Encode unknown format = %v, want *EncodeError", err)
	}
	if err := Encode(&buf, src, FormatJPEG, Options{JPEGQuality: 101}); !errors.As(err, &encErr) {
		t.Errorf("Encode quality 101 = %v, want *EncodeError", err)
	}
	if err := Encode(&buf, nil, FormatPNG, Options{}); !errors.Is(err, canvas.ErrInvalidImage) {
		t.Errorf("Encode nil image = %v, want ErrInvalidImage", err)
	}
}

func TestEncodeFileRoundTrip(t *testing.T) {
	src := canvas.Uniform(5, 5, color.RGBA{G: 200, A: 255})
	path := filepath.Join(t.TempDir(), "out.png")

	if err := EncodeFile(path, src, Options{}); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	got, format, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if format != FormatPNG {
		t.Errorf("format = %s, want png", format)
	}
	if !canvas.Equal(got, src) {
		t.Error("file round trip changed pixel data")
	}
}

func TestEncodeFileBadExtension(t *testing.T) {
	src := canvas.Uniform(2, 2, color.RGBA{A: 255})
	err := EncodeFile(filepath.Join(t.TempDir(), "out.webp"), src, Options{})
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("EncodeFile(.webp) = %v, want *EncodeError", err)
	}
}
