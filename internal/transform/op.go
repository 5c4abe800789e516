// Package transform defines the image operations applied through the
// editor engine. An operation is a tagged value: a Kind plus the
// parameters for that kind. Each kind's transform is a pure function
// registered in a lookup keyed by kind; transforms never mutate their
// input and always allocate a fresh output image.
package transform

import (
	"fmt"
	"image"
	"image/color"
)

// Kind identifies an operation family.
type Kind int

const (
	// KindCrop cuts a rectangle out of the image.
	KindCrop Kind = iota
	// KindResize scales the image to explicit dimensions.
	KindResize
	// KindRotate rotates the image by an arbitrary angle in degrees.
	KindRotate
	// KindFlip mirrors the image across an axis.
	KindFlip
	// KindAdjust applies brightness/contrast/saturation factors.
	KindAdjust
	// KindFilter applies a named pixel filter.
	KindFilter
	// KindStroke commits a freehand brush stroke.
	KindStroke
)

// String returns the kind name used in logs and parse errors.
func (k Kind) String() string {
	switch k {
	case KindCrop:
		return "crop"
	case KindResize:
		return "resize"
	case KindRotate:
		return "rotate"
	case KindFlip:
		return "flip"
	case KindAdjust:
		return "adjust"
	case KindFilter:
		return "filter"
	case KindStroke:
		return "stroke"
	default:
		return "unknown"
	}
}

// Axis selects the mirror direction for flip operations.
type Axis int

const (
	// AxisHorizontal mirrors left-right.
	AxisHorizontal Axis = iota
	// AxisVertical mirrors top-bottom.
	AxisVertical
)

// String returns the axis name.
func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// FilterKind names the built-in pixel filters.
type FilterKind int

const (
	// FilterGrayscale converts to Rec. 601 luma.
	FilterGrayscale FilterKind = iota
	// FilterSepia applies the classic sepia tone matrix.
	FilterSepia
	// FilterBlur applies a 3x3 box blur.
	FilterBlur
	// FilterSharpen applies a Laplacian sharpen kernel.
	FilterSharpen
	// FilterEdgeDetect applies an 8-neighbor edge kernel.
	FilterEdgeDetect
)

// String returns the filter name accepted by ParseFilter.
func (f FilterKind) String() string {
	switch f {
	case FilterGrayscale:
		return "grayscale"
	case FilterSepia:
		return "sepia"
	case FilterBlur:
		return "blur"
	case FilterSharpen:
		return "sharpen"
	case FilterEdgeDetect:
		return "edge"
	default:
		return "unknown"
	}
}

// ParseFilter resolves a filter name to its kind.
func ParseFilter(name string) (FilterKind, error) {
	switch name {
	case "grayscale", "greyscale":
		return FilterGrayscale, nil
	case "sepia":
		return FilterSepia, nil
	case "blur":
		return FilterBlur, nil
	case "sharpen":
		return FilterSharpen, nil
	case "edge", "edge-detect":
		return FilterEdgeDetect, nil
	default:
		return 0, &OpError{Kind: KindFilter, Reason: fmt.Sprintf("unknown filter %q", name)}
	}
}

// Op is a single parameterized operation. Only the fields for its Kind
// are meaningful; the constructors below populate them.
type Op struct {
	Kind Kind

	// Crop
	Rect image.Rectangle

	// Resize
	Width, Height int

	// Rotate (degrees; positive rotates clockwise)
	Angle float64

	// Flip
	Axis Axis

	// Adjust (enhancement factors, 1.0 = identity)
	Brightness float64
	Contrast   float64
	Saturation float64

	// Filter
	Filter FilterKind

	// Stroke
	Path  []image.Point
	Color color.RGBA
	Brush int
}

// Crop returns an operation that cuts rect out of the image. The
// rectangle must be non-empty and lie fully inside the image bounds.
func Crop(rect image.Rectangle) Op {
	return Op{Kind: KindCrop, Rect: rect.Canon()}
}

// Resize returns an operation that scales the image to w x h.
func Resize(w, h int) Op {
	return Op{Kind: KindResize, Width: w, Height: h}
}

// Rotate returns an operation that rotates by angle degrees. Positive
// angles rotate clockwise; the canvas grows to fit the rotated image.
func Rotate(angle float64) Op {
	return Op{Kind: KindRotate, Angle: angle}
}

// FlipH returns a left-right mirror operation.
func FlipH() Op {
	return Op{Kind: KindFlip, Axis: AxisHorizontal}
}

// FlipV returns a top-bottom mirror operation.
func FlipV() Op {
	return Op{Kind: KindFlip, Axis: AxisVertical}
}

// Adjust returns a color adjustment operation. Each factor is an
// enhancement multiplier with 1.0 as identity; the usual UI range is
// 0.0 to 2.0. Negative factors are rejected at apply time.
func Adjust(brightness, contrast, saturation float64) Op {
	return Op{
		Kind:       KindAdjust,
		Brightness: brightness,
		Contrast:   contrast,
		Saturation: saturation,
	}
}

// Filter returns a named filter operation.
func Filter(kind FilterKind) Op {
	return Op{Kind: KindFilter, Filter: kind}
}

// Stroke returns a freehand brush commit. The path is a polyline of
// canvas points; width is the brush diameter in pixels. Points outside
// the canvas clip silently.
func Stroke(path []image.Point, c color.RGBA, width int) Op {
	return Op{Kind: KindStroke, Path: path, Color: c, Brush: width}
}

// String renders the operation for logs.
func (op Op) String() string {
	switch op.Kind {
	case KindCrop:
		return fmt.Sprintf("crop %v", op.Rect)
	case KindResize:
		return fmt.Sprintf("resize %dx%d", op.Width, op.Height)
	case KindRotate:
		return fmt.Sprintf("rotate %g", op.Angle)
	case KindFlip:
		return fmt.Sprintf("flip %s", op.Axis)
	case KindAdjust:
		return fmt.Sprintf("adjust b=%g c=%g s=%g", op.Brightness, op.Contrast, op.Saturation)
	case KindFilter:
		return fmt.Sprintf("filter %s", op.Filter)
	case KindStroke:
		return fmt.Sprintf("stroke %d points width %d", len(op.Path), op.Brush)
	default:
		return "unknown op"
	}
}
