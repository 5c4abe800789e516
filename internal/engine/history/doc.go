// Package history provides undo/redo functionality for the image editor
// engine.
//
// The history system stores whole-image snapshots in two bounded logs,
// modeling the classic three-slot layout: entries in the undo log are
// strictly older than the current canvas image, entries in the redo log
// are strictly newer states that were undone.
//
// # Recording
//
// Before a mutation takes effect, the caller records a snapshot of the
// pre-change image:
//
//	h := history.New(history.WithMaxDepth(50))
//
//	h.Record(snapshotBefore) // clears any pending redo state
//
// Recording invalidates the whole redo log: redo is only meaningful
// immediately after an undo, with no intervening new edit.
//
// # Undo and Redo
//
// Undo and Redo exchange the caller's current image with the most recent
// log entry. The boolean result is the no-op signal: a false return means
// the respective log was empty and nothing changed.
//
//	prev, ok := h.Undo(current)
//	if ok {
//	    current = prev
//	}
//
// # Bounding
//
// The undo log is capped (DefaultDepth entries by default). When the cap
// is exceeded the oldest snapshot is dropped silently; losing the oldest
// undo step is an accepted limitation of whole-image snapshotting, not an
// error.
package history
