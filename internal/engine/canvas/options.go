package canvas

import "image"

// Option is a functional option for configuring a Canvas.
type Option func(*Canvas)

// WithImage sets the initial image. Images that fail Validate are
// ignored; use Set when the error matters.
func WithImage(img *image.RGBA) Option {
	return func(c *Canvas) {
		if Validate(img) == nil {
			c.img = img
		}
	}
}
