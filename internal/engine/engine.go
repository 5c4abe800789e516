package engine

import (
	"fmt"
	"image"
	"sync"

	"github.com/dshills/pixelstorm/internal/engine/canvas"
	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/transform"
)

// Re-export commonly used types for convenience.
type (
	// Op is a single parameterized image operation.
	Op = transform.Op

	// Kind identifies an operation family.
	Kind = transform.Kind

	// FilterKind names the built-in pixel filters.
	FilterKind = transform.FilterKind

	// OpError reports operation parameters invalid for the current image.
	OpError = transform.OpError
)

// Re-export constants.
const (
	DefaultMaxUndoDepth = history.DefaultDepth
	MinUndoDepth        = history.MinDepth
	MaxUndoDepth        = history.MaxDepth
)

// Engine is the editing session core: one canvas holding the current
// image and one bounded history of past states. Every mutation goes
// through Apply, Undo, Redo, or Load; nothing else touches the canvas.
//
// A single mutex serializes the mutating entry points so the undo log,
// the current image, and the redo log always move as one atomic unit.
// Read accessors go through the canvas's own lock and never observe a
// torn state.
type Engine struct {
	mu      sync.Mutex
	canvas  *canvas.Canvas
	history *history.History

	// Configuration
	maxUndoDepth int

	// Initialization
	initImage *image.RGBA
}

// New creates an Engine with the given options. The canvas starts
// empty unless WithImage supplies an initial image.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoDepth: DefaultMaxUndoDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = history.New(history.WithMaxDepth(e.maxUndoDepth))

	var canvasOpts []canvas.Option
	if e.initImage != nil {
		canvasOpts = append(canvasOpts, canvas.WithImage(e.initImage))
	}
	e.canvas = canvas.New(canvasOpts...)

	return e
}

// === Mutation ===

// Apply runs op against the current image and commits the result.
// The call is transactional: on any error the canvas and both history
// logs are unchanged. On success the pre-apply image is recorded on
// the undo log, the redo log is cleared, and the new image is
// returned.
func (e *Engine) Apply(op Op) (*image.RGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.canvas.Image()
	if current == nil {
		return nil, fmt.Errorf("apply %s: %w", op, ErrNoImage)
	}

	next, err := transform.Apply(current, op)
	if err != nil {
		return nil, err
	}
	if err := canvas.Validate(next); err != nil {
		return nil, err
	}

	// Commit point: nothing below can fail.
	e.history.Record(canvas.Clone(current))
	if err := e.canvas.Set(next); err != nil {
		// Unreachable after the validation above; keeps history in
		// sync if the canvas invariant ever tightens.
		e.history.Undo(next)
		return nil, err
	}
	return next, nil
}

// Undo moves the canvas back to the most recent undo entry. It
// returns false when the undo log is empty; the canvas and both logs
// are untouched in that case. Undo never re-runs operation logic.
func (e *Engine) Undo() (*image.RGBA, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.canvas.Image()
	prev, ok := e.history.Undo(current)
	if !ok {
		return nil, false
	}
	if err := e.canvas.Set(prev); err != nil {
		e.history.Redo(current)
		return nil, false
	}
	return prev, true
}

// Redo moves the canvas forward to the most recent redo entry. It
// returns false when the redo log is empty; nothing changes in that
// case.
func (e *Engine) Redo() (*image.RGBA, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.canvas.Image()
	next, ok := e.history.Redo(current)
	if !ok {
		return nil, false
	}
	if err := e.canvas.Set(next); err != nil {
		e.history.Undo(current)
		return nil, false
	}
	return next, true
}

// Load replaces the canvas with a freshly opened image and clears all
// history. A loaded image has no past.
func (e *Engine) Load(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.canvas.Reset(img); err != nil {
		return err
	}
	e.history.Clear()
	return nil
}

// === Read access ===

// Image returns the current image, or nil when nothing is loaded. The
// returned image is the live canvas backing; use Snapshot for a copy.
func (e *Engine) Image() *image.RGBA {
	return e.canvas.Image()
}

// Snapshot returns an independent copy of the current image.
func (e *Engine) Snapshot() *image.RGBA {
	return e.canvas.Snapshot()
}

// Empty reports whether no image is loaded.
func (e *Engine) Empty() bool {
	return e.canvas.Empty()
}

// Bounds returns the current image bounds, or the zero rectangle when
// the canvas is empty.
func (e *Engine) Bounds() image.Rectangle {
	return e.canvas.Bounds()
}

// Size returns the current width and height.
func (e *Engine) Size() (int, int) {
	return e.canvas.Size()
}

// === History introspection ===

// HistoryDepth returns the undo and redo log depths, for enabling or
// disabling undo/redo affordances.
func (e *Engine) HistoryDepth() (undoDepth, redoDepth int) {
	return e.history.Depth()
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// MaxDepth returns the configured undo depth cap.
func (e *Engine) MaxDepth() int {
	return e.history.MaxDepth()
}
