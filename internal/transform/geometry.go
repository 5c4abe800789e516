package transform

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// applyCrop cuts op.Rect out of src. The rectangle must be non-empty
// and lie entirely inside the image bounds; a partially out-of-bounds
// rectangle is an error, not an intersection.
func applyCrop(src *image.RGBA, op Op) (*image.RGBA, error) {
	rect := op.Rect.Canon()
	if rect.Empty() {
		return nil, opErrorf(KindCrop, "empty rectangle %v", op.Rect)
	}
	if !rect.In(src.Rect) {
		return nil, opErrorf(KindCrop, "rectangle %v outside image bounds %v", rect, src.Rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		srcOff := src.PixOffset(rect.Min.X, rect.Min.Y+y)
		dstOff := dst.PixOffset(0, y)
		copy(dst.Pix[dstOff:dstOff+rect.Dx()*4], src.Pix[srcOff:srcOff+rect.Dx()*4])
	}
	return dst, nil
}

// applyResize scales src to op.Width x op.Height using Catmull-Rom
// interpolation.
func applyResize(src *image.RGBA, op Op) (*image.RGBA, error) {
	if op.Width < 1 || op.Height < 1 {
		return nil, opErrorf(KindResize, "non-positive dimensions %dx%d", op.Width, op.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, op.Width, op.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// applyRotate rotates src by op.Angle degrees, positive clockwise.
// The output canvas grows to the bounding box of the rotated corners;
// regions the source does not cover stay transparent. Multiples of 90
// degrees take an exact index-remap path, everything else goes through
// a bilinear inverse mapping.
func applyRotate(src *image.RGBA, op Op) (*image.RGBA, error) {
	angle := math.Mod(op.Angle, 360)
	if angle < 0 {
		angle += 360
	}

	switch angle {
	case 0:
		return clone(src), nil
	case 90:
		return rotate90(src), nil
	case 180:
		return rotate180(src), nil
	case 270:
		return rotate270(src), nil
	}

	theta := angle * math.Pi / 180
	sin, cos := math.Sincos(theta)
	w := float64(src.Rect.Dx())
	h := float64(src.Rect.Dy())

	// Bounding box of the four rotated corners.
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for _, c := range [4][2]float64{{w, 0}, {0, h}, {w, h}} {
		x := c[0]*cos - c[1]*sin
		y := c[0]*sin + c[1]*cos
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(maxX-minX)), int(math.Ceil(maxY-minY))))
	s2d := f64.Aff3{
		cos, -sin, -minX,
		sin, cos, -minY,
	}
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func rotate90(src *image.RGBA) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			d := dst.PixOffset(h-1-y, x)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst
}

func rotate180(src *image.RGBA) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			d := dst.PixOffset(w-1-x, h-1-y)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst
}

func rotate270(src *image.RGBA) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			d := dst.PixOffset(y, w-1-x)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst
}

// applyFlip mirrors src across the chosen axis.
func applyFlip(src *image.RGBA, op Op) (*image.RGBA, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			var d int
			if op.Axis == AxisVertical {
				d = dst.PixOffset(x, h-1-y)
			} else {
				d = dst.PixOffset(w-1-x, y)
			}
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst, nil
}
