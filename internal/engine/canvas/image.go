package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Validate checks the canvas image invariant: img is non-nil, at least
// 1x1, tightly packed (stride == width*4), and backed by a pixel buffer
// of exactly width*height*4 bytes. Sub-images and hand-built images
// that violate the packing rule are rejected.
func Validate(img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, w, h)
	}
	if img.Stride != w*4 {
		return fmt.Errorf("%w: stride %d for width %d", ErrInvalidImage, img.Stride, w)
	}
	if len(img.Pix) != w*h*4 {
		return fmt.Errorf("%w: pixel buffer length %d, want %d", ErrInvalidImage, len(img.Pix), w*h*4)
	}
	return nil
}

// Clone returns an exact pixel copy of img sharing no storage with it.
// A nil img yields nil. The input must be tightly packed, which every
// validated canvas image is.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	dst := image.NewRGBA(img.Rect)
	copy(dst.Pix, img.Pix)
	return dst
}

// Normalize converts any image to the canonical canvas form: a tightly
// packed *image.RGBA with a zero origin. Decoded files arrive in
// whatever color model the codec produced; this funnels them all into
// one representation.
func Normalize(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		if Validate(rgba) == nil && rgba.Rect.Min.X == 0 && rgba.Rect.Min.Y == 0 {
			return rgba
		}
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Uniform returns a w x h image filled with a single color.
func Uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// Equal reports whether two images have identical bounds and pixel
// data. Nil images are equal only to nil.
func Equal(a, b *image.RGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Rect != b.Rect || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
