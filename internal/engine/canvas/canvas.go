package canvas

import (
	"errors"
	"image"
	"sync"
)

// Errors returned by canvas operations.
var (
	ErrInvalidImage = errors.New("invalid image")
	ErrNoImage      = errors.New("no image loaded")
)

// Canvas holds the single authoritative image being edited. The slot is
// replaced atomically with respect to readers; all methods are safe for
// concurrent use.
//
// A Canvas never exposes a torn view: Image and Snapshot observe either
// the image before a Set or the image after it, never a mix.
type Canvas struct {
	mu  sync.RWMutex
	img *image.RGBA
}

// New creates a canvas, empty unless an option provides an image.
func New(opts ...Option) *Canvas {
	c := &Canvas{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Image returns the current image, or nil when nothing is loaded.
// The returned value is the live backing image; callers that need an
// independent copy must use Snapshot.
func (c *Canvas) Image() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img
}

// Snapshot returns a deep copy of the current image, or nil when the
// canvas is empty. The copy shares no storage with the canvas.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Clone(c.img)
}

// Set replaces the current image. It fails with ErrInvalidImage when
// img is nil, has zero dimensions, or its pixel buffer does not match
// width*height*4 exactly.
func (c *Canvas) Set(img *image.RGBA) error {
	if err := Validate(img); err != nil {
		return err
	}
	c.mu.Lock()
	c.img = img
	c.mu.Unlock()
	return nil
}

// Reset replaces the current image when a new file is loaded. It is
// identical to Set; the caller is responsible for clearing any history
// that references the previous image.
func (c *Canvas) Reset(img *image.RGBA) error {
	return c.Set(img)
}

// Empty reports whether the canvas holds no image.
func (c *Canvas) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img == nil
}

// Bounds returns the bounds of the current image, or the zero rectangle
// when the canvas is empty.
func (c *Canvas) Bounds() image.Rectangle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return image.Rectangle{}
	}
	return c.img.Bounds()
}

// Size returns the current width and height, or zeros when empty.
func (c *Canvas) Size() (int, int) {
	b := c.Bounds()
	return b.Dx(), b.Dy()
}
