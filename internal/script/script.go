// Package script runs Lua batch-editing scripts against an engine.
//
// Scripts see a single global module named pixel with functions for
// loading, transforming, and saving images:
//
//	pixel.open("in.png")
//	pixel.resize(800, 600)
//	pixel.filter("sharpen")
//	pixel.save("out.png")
//
// The state is sandboxed: only the base, table, string, and math
// libraries are opened, and the file/string loaders are removed.
// Filesystem access happens exclusively through pixel.open and
// pixel.save.
package script

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pixelstorm/internal/app"
	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/engine"
	"github.com/dshills/pixelstorm/internal/engine/canvas"
	"github.com/dshills/pixelstorm/internal/transform"
)

// Runner executes Lua scripts against a single editing engine.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes
// access from Go code; Lua execution itself is single-threaded.
type Runner struct {
	mu sync.Mutex

	L      *lua.LState
	engine *engine.Engine
	brush  app.Brush
	enc    codec.Options
	logger *app.Logger

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine sets the engine the script operates on. Without it the
// Runner creates a fresh engine with default limits.
func WithEngine(e *engine.Engine) Option {
	return func(r *Runner) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithBrush sets the default brush used by pixel.stroke when the
// script does not pass explicit color and width arguments.
func WithBrush(b app.Brush) Option {
	return func(r *Runner) {
		r.brush = b
	}
}

// WithEncodeOptions sets the encoding options used by pixel.save.
func WithEncodeOptions(opts codec.Options) Option {
	return func(r *Runner) {
		r.enc = opts
	}
}

// WithLogger sets the logger for script diagnostics.
func WithLogger(logger *app.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger.WithComponent("script")
		}
	}
}

// NewRunner creates a sandboxed Lua runner with the pixel module
// installed.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		engine: engine.New(),
		brush:  app.Brush{Color: color.RGBA{A: 255}, Width: 4},
		logger: app.NullLogger,
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively below
	})
	r.L = L

	openSafeLibraries(L)
	removeLoaders(L)

	mod := L.SetFuncs(L.NewTable(), r.moduleFuncs())
	L.SetGlobal("pixel", mod)

	return r
}

// openSafeLibraries opens only safe Lua standard libraries.
// io, os, debug, and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// removeLoaders strips the base-library functions that load code from
// files or strings.
func removeLoaders(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Engine returns the engine the runner operates on.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// DoFile executes a Lua script file. The call blocks until the script
// completes or fails.
func (r *Runner) DoFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	r.logger.Debug("running script file: %s", path)
	return r.doWithRecovery(func() error {
		return r.L.DoFile(path)
	})
}

// DoString executes Lua source code. The call blocks until the code
// completes or fails.
func (r *Runner) DoString(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	return r.doWithRecovery(func() error {
		return r.L.DoString(code)
	})
}

// doWithRecovery converts panics from the Lua runtime into errors.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state. Further calls return ErrRunnerClosed.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}

// === Module functions ===

func (r *Runner) moduleFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"open":           r.luaOpen,
		"save":           r.luaSave,
		"blank":          r.luaBlank,
		"crop":           r.luaCrop,
		"resize":         r.luaResize,
		"rotate":         r.luaRotate,
		"flip":           r.luaFlip,
		"adjust":         r.luaAdjust,
		"filter":         r.luaFilter,
		"stroke":         r.luaStroke,
		"undo":           r.luaUndo,
		"redo":           r.luaRedo,
		"width":          r.luaWidth,
		"height":         r.luaHeight,
		"snapshot_count": r.luaSnapshotCount,
	}
}

// apply runs an operation against the engine, converting failures into
// Lua errors so the script aborts at the failing line.
func (r *Runner) apply(L *lua.LState, op transform.Op) int {
	if _, err := r.engine.Apply(op); err != nil {
		L.RaiseError("%s: %v", op.Kind, err)
	}
	r.logger.Debug("applied %s", op)
	return 0
}

func (r *Runner) luaOpen(L *lua.LState) int {
	path := L.CheckString(1)
	img, _, err := codec.DecodeFile(path)
	if err != nil {
		L.RaiseError("open: %v", err)
	}
	if err := r.engine.Load(img); err != nil {
		L.RaiseError("open: %v", err)
	}
	r.logger.Info("opened %s", path)
	return 0
}

func (r *Runner) luaSave(L *lua.LState) int {
	path := L.CheckString(1)
	img := r.engine.Image()
	if img == nil {
		L.RaiseError("save: no image loaded")
	}
	if err := codec.EncodeFile(path, img, r.enc); err != nil {
		L.RaiseError("save: %v", err)
	}
	r.logger.Info("saved %s", path)
	return 0
}

func (r *Runner) luaBlank(L *lua.LState) int {
	w := L.CheckInt(1)
	h := L.CheckInt(2)
	if w < 1 || h < 1 {
		L.RaiseError("blank: dimensions must be positive, got %dx%d", w, h)
	}
	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if L.GetTop() >= 3 {
		c, err := transform.ParseColor(L.CheckString(3))
		if err != nil {
			L.RaiseError("blank: %v", err)
		}
		fill = c
	}
	if err := r.engine.Load(canvas.Uniform(w, h, fill)); err != nil {
		L.RaiseError("blank: %v", err)
	}
	return 0
}

func (r *Runner) luaCrop(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)
	w := L.CheckInt(3)
	h := L.CheckInt(4)
	return r.apply(L, transform.Crop(image.Rect(x, y, x+w, y+h)))
}

func (r *Runner) luaResize(L *lua.LState) int {
	return r.apply(L, transform.Resize(L.CheckInt(1), L.CheckInt(2)))
}

func (r *Runner) luaRotate(L *lua.LState) int {
	return r.apply(L, transform.Rotate(float64(L.CheckNumber(1))))
}

func (r *Runner) luaFlip(L *lua.LState) int {
	var op transform.Op
	switch axis := L.CheckString(1); axis {
	case "h", "horizontal":
		op = transform.FlipH()
	case "v", "vertical":
		op = transform.FlipV()
	default:
		L.RaiseError("flip: unknown axis %q", axis)
	}
	return r.apply(L, op)
}

// luaAdjust accepts a table of named factors; absent keys default to
// the identity factor 1.0.
func (r *Runner) luaAdjust(L *lua.LState) int {
	tbl := L.CheckTable(1)
	factor := func(key string) float64 {
		v := L.GetField(tbl, key)
		if v == lua.LNil {
			return 1
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			L.RaiseError("adjust: %s must be a number", key)
		}
		return float64(n)
	}
	op := transform.Adjust(factor("brightness"), factor("contrast"), factor("saturation"))
	return r.apply(L, op)
}

func (r *Runner) luaFilter(L *lua.LState) int {
	kind, err := transform.ParseFilter(L.CheckString(1))
	if err != nil {
		L.RaiseError("filter: %v", err)
	}
	return r.apply(L, transform.Filter(kind))
}

// luaStroke takes a flat table of coordinates {x1, y1, x2, y2, ...}
// and optional color and width arguments, defaulting to the runner's
// brush.
func (r *Runner) luaStroke(L *lua.LState) int {
	tbl := L.CheckTable(1)
	n := tbl.Len()
	if n < 2 || n%2 != 0 {
		L.RaiseError("stroke: point table needs an even number of coordinates, got %d", n)
	}

	points := make([]image.Point, 0, n/2)
	for i := 1; i <= n; i += 2 {
		x, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.RaiseError("stroke: coordinate %d is not a number", i)
		}
		y, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.RaiseError("stroke: coordinate %d is not a number", i+1)
		}
		points = append(points, image.Pt(int(x), int(y)))
	}

	color := r.brush.Color
	width := r.brush.Width
	if L.GetTop() >= 2 {
		c, err := transform.ParseColor(L.CheckString(2))
		if err != nil {
			L.RaiseError("stroke: %v", err)
		}
		color = c
	}
	if L.GetTop() >= 3 {
		width = L.CheckInt(3)
	}

	return r.apply(L, transform.Stroke(points, color, width))
}

func (r *Runner) luaUndo(L *lua.LState) int {
	_, ok := r.engine.Undo()
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runner) luaRedo(L *lua.LState) int {
	_, ok := r.engine.Redo()
	L.Push(lua.LBool(ok))
	return 1
}

func (r *Runner) luaWidth(L *lua.LState) int {
	w, _ := r.engine.Size()
	L.Push(lua.LNumber(w))
	return 1
}

func (r *Runner) luaHeight(L *lua.LState) int {
	_, h := r.engine.Size()
	L.Push(lua.LNumber(h))
	return 1
}

func (r *Runner) luaSnapshotCount(L *lua.LState) int {
	undoDepth, _ := r.engine.HistoryDepth()
	L.Push(lua.LNumber(undoDepth))
	return 1
}
