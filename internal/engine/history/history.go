package history

import (
	"image"
	"sync"
)

// Depth limits for the undo log. Entries are whole-image snapshots, so
// the log stays short and old entries are dropped silently once the cap
// is reached. Dropping the oldest undo step is an accepted limitation,
// not an error.
const (
	MinDepth     = 20
	MaxDepth     = 50
	DefaultDepth = 50
)

// History is a bounded, linear undo/redo log of canvas snapshots.
// Undo entries are strictly older than the current image and redo
// entries strictly newer; recording a new snapshot invalidates all
// redo state. All methods are safe for concurrent use.
type History struct {
	mu       sync.Mutex
	undo     []*image.RGBA
	redo     []*image.RGBA
	maxDepth int
}

// New creates an empty history log.
func New(opts ...Option) *History {
	h := &History{
		maxDepth: DefaultDepth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record pushes a pre-change snapshot onto the undo log and clears the
// redo log. When the log exceeds its depth cap the oldest entries are
// dropped.
func (h *History) Record(snapshot *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, snapshot)
	h.redo = nil

	if len(h.undo) > h.maxDepth {
		excess := len(h.undo) - h.maxDepth
		h.undo = h.undo[excess:]
	}
}

// Undo exchanges current for the most recent undo entry. It returns
// false when the undo log is empty; in that case nothing changes and
// the caller keeps current.
func (h *History) Undo(current *image.RGBA) (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return nil, false
	}

	last := len(h.undo) - 1
	prev := h.undo[last]
	h.undo = h.undo[:last]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo exchanges current for the most recent redo entry. It returns
// false when the redo log is empty; in that case nothing changes and
// the caller keeps current.
func (h *History) Redo(current *image.RGBA) (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return nil, false
	}

	last := len(h.redo) - 1
	next := h.redo[last]
	h.redo = h.redo[:last]
	h.undo = append(h.undo, current)
	return next, true
}

// Clear empties both logs. Used when a new file is loaded.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// Depth returns the current undo and redo log depths.
func (h *History) Depth() (undoDepth, redoDepth int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}

// CanUndo reports whether an undo entry is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether a redo entry is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// MaxDepth returns the configured undo depth cap.
func (h *History) MaxDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxDepth
}
