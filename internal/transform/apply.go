package transform

import "image"

// transformFunc computes a new image from the input and the operation
// parameters. Implementations never mutate src.
type transformFunc func(src *image.RGBA, op Op) (*image.RGBA, error)

// transforms maps each operation kind to its pure transform. The
// registry replaces open-ended dispatch: adding a kind means adding a
// constant, a constructor, and one entry here.
var transforms = map[Kind]transformFunc{
	KindCrop:   applyCrop,
	KindResize: applyResize,
	KindRotate: applyRotate,
	KindFlip:   applyFlip,
	KindAdjust: applyAdjust,
	KindFilter: applyFilter,
	KindStroke: applyStroke,
}

// Apply runs op against src and returns a freshly allocated result.
// The input image is never modified. An *OpError is returned when the
// operation parameters are invalid for src or the kind is unknown.
func Apply(src *image.RGBA, op Op) (*image.RGBA, error) {
	if src == nil {
		return nil, opErrorf(op.Kind, "no image")
	}
	fn, ok := transforms[op.Kind]
	if !ok {
		return nil, opErrorf(op.Kind, "unregistered operation kind %d", int(op.Kind))
	}
	return fn(src, op)
}

// clone returns an exact pixel copy of src.
func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// clamp8 converts a float channel value to a byte, saturating at the
// [0, 255] range.
func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
