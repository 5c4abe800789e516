// Package engine provides the core image editing engine for Pixelstorm.
//
// The engine package serves as the main facade, combining the canvas
// buffer and the undo/redo history manager into a unified, thread-safe
// API. It is the single entry point through which every mutating
// operation reaches the image: UI layers, scripts, and servers all
// construct operations and hand them to Apply.
//
// # Architecture
//
// The engine owns two subsystems:
//
//   - canvas: the single authoritative current image (engine/canvas)
//   - history: bounded undo and redo logs of past images (engine/history)
//
// Operations themselves live in the transform package as pure
// functions; the engine never contains pixel math. Applying an
// operation snapshots the current image onto the undo log, replaces
// the canvas with the operation's result, and clears the redo log.
// Undo and redo move images between the three slots without re-running
// any operation logic.
//
// # Transactional Apply
//
// Apply either fully commits or has no observable effect. A transform
// failure (out-of-bounds crop, zero-dimension resize, malformed
// stroke) returns the error with the canvas and both logs untouched.
//
// # Usage
//
//	eng := engine.New(engine.WithMaxUndoDepth(30))
//	if err := eng.Load(img); err != nil {
//		return err
//	}
//	if _, err := eng.Apply(transform.Resize(800, 600)); err != nil {
//		return err
//	}
//	if prev, ok := eng.Undo(); ok {
//		render(prev)
//	}
//
// # Concurrency
//
// All methods are safe for concurrent use. One mutex serializes the
// mutating entry points (Apply, Undo, Redo, Load) so the undo log,
// current image, and redo log always change as one atomic unit.
package engine
