// Package view owns the zoom and pan state used to render the canvas.
// The editing core has no opinion on view transforms; this package
// maps between screen space and image space for whatever surface
// displays the image.
package view

import "math"

// Zoom limits and defaults. The step matches the editor's zoom
// in/zoom out increment.
const (
	DefaultZoomStep = 1.25
	DefaultMinZoom  = 0.05
	DefaultMaxZoom  = 32.0
)

// Viewport maps image coordinates onto a display surface with a zoom
// factor and a pan offset. Pan is measured in image pixels at the
// image's top-left corner.
type Viewport struct {
	zoom    float64
	panX    float64
	panY    float64
	step    float64
	minZoom float64
	maxZoom float64
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithZoomStep sets the zoom in/out multiplier.
func WithZoomStep(step float64) Option {
	return func(v *Viewport) {
		if step > 1 {
			v.step = step
		}
	}
}

// WithZoomRange sets the zoom clamp range.
func WithZoomRange(min, max float64) Option {
	return func(v *Viewport) {
		if min > 0 && max >= min {
			v.minZoom = min
			v.maxZoom = max
		}
	}
}

// New creates a viewport at 1:1 zoom with no pan.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		zoom:    1.0,
		step:    DefaultZoomStep,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Pan returns the current pan offset in image pixels.
func (v *Viewport) Pan() (x, y float64) {
	return v.panX, v.panY
}

// SetZoom sets an explicit zoom factor, clamped to the allowed range.
func (v *Viewport) SetZoom(zoom float64) {
	v.zoom = math.Min(math.Max(zoom, v.minZoom), v.maxZoom)
}

// ZoomIn multiplies the zoom by one step.
func (v *Viewport) ZoomIn() {
	v.SetZoom(v.zoom * v.step)
}

// ZoomOut divides the zoom by one step.
func (v *Viewport) ZoomOut() {
	v.SetZoom(v.zoom / v.step)
}

// ZoomAt sets the zoom while keeping the image point under the screen
// coordinate (sx, sy) stationary.
func (v *Viewport) ZoomAt(sx, sy, zoom float64) {
	ix, iy := v.ScreenToImage(sx, sy)
	v.SetZoom(zoom)
	v.panX = ix - sx/v.zoom
	v.panY = iy - sy/v.zoom
}

// PanBy shifts the view by a delta in image pixels.
func (v *Viewport) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// SetPan sets the pan offset.
func (v *Viewport) SetPan(x, y float64) {
	v.panX = x
	v.panY = y
}

// Reset restores 1:1 zoom and zero pan.
func (v *Viewport) Reset() {
	v.zoom = 1.0
	v.panX = 0
	v.panY = 0
}

// Fit sets zoom and pan so a w x h image fills as much of a
// viewW x viewH surface as possible without cropping, centered.
func (v *Viewport) Fit(w, h, viewW, viewH int) {
	if w < 1 || h < 1 || viewW < 1 || viewH < 1 {
		return
	}
	scale := math.Min(float64(viewW)/float64(w), float64(viewH)/float64(h))
	v.SetZoom(scale)
	// Center the image: negative pan shifts the image right/down.
	v.panX = (float64(w) - float64(viewW)/v.zoom) / 2
	v.panY = (float64(h) - float64(viewH)/v.zoom) / 2
}

// ScreenToImage converts a screen coordinate to image space.
func (v *Viewport) ScreenToImage(sx, sy float64) (ix, iy float64) {
	return sx/v.zoom + v.panX, sy/v.zoom + v.panY
}

// ImageToScreen converts an image coordinate to screen space.
func (v *Viewport) ImageToScreen(ix, iy float64) (sx, sy float64) {
	return (ix - v.panX) * v.zoom, (iy - v.panY) * v.zoom
}
