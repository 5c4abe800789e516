package engine

import (
	"github.com/dshills/pixelstorm/internal/engine/canvas"
)

// Errors returned by engine operations.
var (
	// ErrNoImage indicates a mutation was attempted on an empty canvas.
	ErrNoImage = canvas.ErrNoImage

	// ErrInvalidImage indicates an image violating the canvas invariant.
	ErrInvalidImage = canvas.ErrInvalidImage
)
