package engine

import "image"

// Option configures an Engine during creation.
type Option func(*Engine)

// WithImage sets the initial canvas image.
func WithImage(img *image.RGBA) Option {
	return func(e *Engine) {
		e.initImage = img
	}
}

// WithMaxUndoDepth sets the undo history depth cap. Values outside
// [MinUndoDepth, MaxUndoDepth] are clamped by the history manager.
func WithMaxUndoDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoDepth = n
		}
	}
}
