package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/dshills/pixelstorm/internal/engine/canvas"
	"github.com/dshills/pixelstorm/internal/transform"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// fillOp returns an operation that paints the whole image in one
// color, implemented as a maximal-width stroke through the center.
func fillOp(img *image.RGBA, c color.RGBA) Op {
	b := img.Bounds()
	mid := image.Point{X: b.Dx() / 2, Y: b.Dy() / 2}
	return transform.Stroke([]image.Point{mid}, c, 4*(b.Dx()+b.Dy()))
}

func newLoaded(t *testing.T, w, h int, c color.RGBA, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	if err := e.Load(canvas.Uniform(w, h, c)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func TestApplyRecordsHistory(t *testing.T) {
	e := newLoaded(t, 8, 8, red)

	for i := 1; i <= 5; i++ {
		if _, err := e.Apply(transform.FlipH()); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
		undoDepth, redoDepth := e.HistoryDepth()
		if undoDepth != i || redoDepth != 0 {
			t.Errorf("after %d applies depth = (%d, %d), want (%d, 0)", i, undoDepth, redoDepth, i)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newLoaded(t, 4, 4, red)

	i1, err := e.Apply(fillOp(e.Image(), blue))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	before := e.Snapshot()
	prev, ok := e.Undo()
	if !ok {
		t.Fatal("Undo returned false with one undo entry")
	}
	if !canvas.Equal(prev, canvas.Uniform(4, 4, red)) {
		t.Error("Undo did not restore the original red image")
	}

	next, ok := e.Redo()
	if !ok {
		t.Fatal("Redo returned false immediately after Undo")
	}
	if !bytes.Equal(next.Pix, before.Pix) {
		t.Error("Redo image is not bit-identical to the pre-undo image")
	}
	if !canvas.Equal(next, i1) {
		t.Error("Redo did not return the applied image")
	}
}

func TestSpecScenarioRedBlue(t *testing.T) {
	// 4x4 red I0; apply fill blue -> I1; undo -> I0; redo -> I1.
	e := newLoaded(t, 4, 4, red)
	i0 := e.Snapshot()

	i1, err := e.Apply(fillOp(e.Image(), blue))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !canvas.Equal(i1, canvas.Uniform(4, 4, blue)) {
		t.Fatal("apply did not produce a blue image")
	}
	if u, r := e.HistoryDepth(); u != 1 || r != 0 {
		t.Errorf("after apply depth = (%d, %d), want (1, 0)", u, r)
	}

	got, ok := e.Undo()
	if !ok || !canvas.Equal(got, i0) {
		t.Fatalf("undo = (%v, %v), want I0", got, ok)
	}
	if u, r := e.HistoryDepth(); u != 0 || r != 1 {
		t.Errorf("after undo depth = (%d, %d), want (0, 1)", u, r)
	}

	got, ok = e.Redo()
	if !ok || !canvas.Equal(got, i1) {
		t.Fatalf("redo = (%v, %v), want I1", got, ok)
	}
	if u, r := e.HistoryDepth(); u != 1 || r != 0 {
		t.Errorf("after redo depth = (%d, %d), want (1, 0)", u, r)
	}
}

func TestApplyClearsRedo(t *testing.T) {
	e := newLoaded(t, 4, 4, red)

	if _, err := e.Apply(transform.FlipH()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := e.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if !e.CanRedo() {
		t.Fatal("redo unavailable after undo")
	}

	if _, err := e.Apply(transform.FlipV()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if e.CanRedo() {
		t.Error("redo still available after a new apply")
	}
	if _, ok := e.Redo(); ok {
		t.Error("Redo succeeded after apply invalidated the redo log")
	}
}

func TestEmptyLogsAreNoOps(t *testing.T) {
	e := newLoaded(t, 4, 4, red)
	before := e.Snapshot()

	if _, ok := e.Undo(); ok {
		t.Error("Undo on empty log returned true")
	}
	if _, ok := e.Redo(); ok {
		t.Error("Redo on empty log returned true")
	}
	if !canvas.Equal(e.Image(), before) {
		t.Error("no-op undo/redo changed the canvas")
	}
	if u, r := e.HistoryDepth(); u != 0 || r != 0 {
		t.Errorf("depth = (%d, %d), want (0, 0)", u, r)
	}
}

func TestLoadClearsHistory(t *testing.T) {
	e := newLoaded(t, 4, 4, red)
	for i := 0; i < 3; i++ {
		if _, err := e.Apply(transform.FlipH()); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if _, ok := e.Undo(); !ok {
		t.Fatal("undo failed")
	}

	fresh := canvas.Uniform(6, 6, blue)
	if err := e.Load(fresh); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u, r := e.HistoryDepth(); u != 0 || r != 0 {
		t.Errorf("after Load depth = (%d, %d), want (0, 0)", u, r)
	}
	if !canvas.Equal(e.Image(), fresh) {
		t.Error("Load did not install the new image")
	}
}

func TestLoadRejectsInvalidImage(t *testing.T) {
	e := New()
	if err := e.Load(nil); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Load(nil) = %v, want ErrInvalidImage", err)
	}
	bad := &image.RGBA{Rect: image.Rect(0, 0, 4, 4), Stride: 16, Pix: make([]byte, 10)}
	if err := e.Load(bad); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Load(short buffer) = %v, want ErrInvalidImage", err)
	}
}

func TestApplyOnEmptyCanvas(t *testing.T) {
	e := New()
	if _, err := e.Apply(transform.FlipH()); !errors.Is(err, ErrNoImage) {
		t.Errorf("Apply on empty canvas = %v, want ErrNoImage", err)
	}
}

func TestApplyFailureIsTransactional(t *testing.T) {
	e := newLoaded(t, 100, 100, red)
	if _, err := e.Apply(transform.FlipH()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := e.Undo(); !ok {
		t.Fatal("undo failed")
	}
	before := e.Snapshot()
	undoBefore, redoBefore := e.HistoryDepth()

	failures := []Op{
		transform.Crop(image.Rect(50, 50, 150, 150)),
		transform.Resize(0, 100),
		transform.Stroke(nil, blue, 1),
	}
	for _, op := range failures {
		_, err := e.Apply(op)
		var opErr *OpError
		if !errors.As(err, &opErr) {
			t.Fatalf("Apply(%s) error = %v, want *OpError", op, err)
		}

		if !canvas.Equal(e.Image(), before) {
			t.Errorf("Apply(%s) failure mutated the canvas", op)
		}
		if u, r := e.HistoryDepth(); u != undoBefore || r != redoBefore {
			t.Errorf("Apply(%s) failure changed depth to (%d, %d), want (%d, %d)",
				op, u, r, undoBefore, redoBefore)
		}
		if !e.CanRedo() {
			t.Errorf("Apply(%s) failure cleared the redo log", op)
		}
	}
}

func TestUndoDepthCap(t *testing.T) {
	e := newLoaded(t, 4, 4, red, WithMaxUndoDepth(50))

	// Stamp each step's index into the top-left pixel so dropped
	// entries are identifiable.
	for i := 1; i <= 60; i++ {
		op := transform.Stroke([]image.Point{{X: 0, Y: 0}},
			color.RGBA{R: uint8(i), A: 255}, 1)
		if _, err := e.Apply(op); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	undoDepth, _ := e.HistoryDepth()
	if undoDepth != 50 {
		t.Fatalf("undo depth = %d, want 50", undoDepth)
	}

	// Walk all the way back: the oldest reachable state is the one
	// before apply 11 (pre-apply states 11..60 were kept).
	var last *image.RGBA
	steps := 0
	for {
		img, ok := e.Undo()
		if !ok {
			break
		}
		last = img
		steps++
	}
	if steps != 50 {
		t.Errorf("undo steps = %d, want 50", steps)
	}
	if got := last.Pix[0]; got != 10 {
		t.Errorf("oldest surviving state marker = %d, want 10", got)
	}
}

func TestMaxUndoDepthClamped(t *testing.T) {
	e := New(WithMaxUndoDepth(5))
	if got := e.MaxDepth(); got != MinUndoDepth {
		t.Errorf("MaxDepth() = %d, want clamped %d", got, MinUndoDepth)
	}
	e = New(WithMaxUndoDepth(500))
	if got := e.MaxDepth(); got != MaxUndoDepth {
		t.Errorf("MaxDepth() = %d, want clamped %d", got, MaxUndoDepth)
	}
}

func TestUndoEntriesAreIndependentCopies(t *testing.T) {
	e := newLoaded(t, 4, 4, red)
	live := e.Image()
	if _, err := e.Apply(transform.FlipH()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Scribble on the old live image; the recorded snapshot must not
	// see it.
	live.Pix[0] = 7

	got, ok := e.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if got.Pix[0] == 7 {
		t.Error("undo snapshot shares storage with the pre-apply image")
	}
}

func TestWithImageOption(t *testing.T) {
	img := canvas.Uniform(3, 3, blue)
	e := New(WithImage(img))
	if e.Empty() {
		t.Fatal("engine empty despite WithImage")
	}
	w, h := e.Size()
	if w != 3 || h != 3 {
		t.Errorf("size = %dx%d, want 3x3", w, h)
	}
	if e.Bounds() != image.Rect(0, 0, 3, 3) {
		t.Errorf("bounds = %v", e.Bounds())
	}
}
