// Package tui is the interactive terminal viewer. It renders the
// active session's canvas with Unicode half blocks, two image rows per
// terminal cell, and maps keystrokes to pan, zoom, edit, and history
// commands.
package tui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pixelstorm/internal/app"
	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/transform"
	"github.com/dshills/pixelstorm/internal/view"
)

// panStep is the pan distance per arrow key, in screen cells.
const panStep = 4

// halfBlock renders two vertically stacked pixels per terminal cell:
// the foreground paints the upper pixel, the background the lower.
const halfBlock = '▀'

// Viewer drives the interactive session view.
type Viewer struct {
	screen   tcell.Screen
	session  *app.Session
	viewport *view.Viewport
	logger   *app.Logger

	enc       codec.Options
	status    string
	ownScreen bool
	fitted    bool
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithScreen injects a screen, used by tests with tcell's simulation
// screen. The caller keeps ownership: Run will not call Fini on it.
func WithScreen(screen tcell.Screen) Option {
	return func(v *Viewer) {
		if screen != nil {
			v.screen = screen
			v.ownScreen = false
		}
	}
}

// WithLogger sets the logger for viewer diagnostics.
func WithLogger(logger *app.Logger) Option {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger.WithComponent("tui")
		}
	}
}

// WithEncodeOptions sets the encoding options used when saving with
// the w key.
func WithEncodeOptions(opts codec.Options) Option {
	return func(v *Viewer) {
		v.enc = opts
	}
}

// WithViewport replaces the default viewport configuration.
func WithViewport(vp *view.Viewport) Option {
	return func(v *Viewer) {
		if vp != nil {
			v.viewport = vp
		}
	}
}

// NewViewer creates a viewer for the session. Unless WithScreen is
// given, a real terminal screen is allocated and owned by the viewer.
func NewViewer(session *app.Session, opts ...Option) (*Viewer, error) {
	v := &Viewer{
		session:   session,
		viewport:  view.New(),
		logger:    app.NullLogger,
		ownScreen: true,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("creating screen: %w", err)
		}
		v.screen = screen
	}
	return v, nil
}

// Run initializes the screen and blocks in the event loop until the
// user quits.
func (v *Viewer) Run() error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	if v.ownScreen {
		defer v.screen.Fini()
	}

	v.setStatus("q quit · arrows pan · +/- zoom · 0 fit · u undo · r redo")
	v.draw()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if quit := v.handleEvent(ev); quit {
			return nil
		}
		v.draw()
	}
}

// handleEvent processes one event, reporting whether to quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.fitted = false
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	step := panStep / v.viewport.Zoom()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.viewport.PanBy(-step, 0)
	case tcell.KeyRight:
		v.viewport.PanBy(step, 0)
	case tcell.KeyUp:
		v.viewport.PanBy(0, -step)
	case tcell.KeyDown:
		v.viewport.PanBy(0, step)
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return false
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true
	case '+', '=':
		v.viewport.ZoomIn()
		v.setStatus(fmt.Sprintf("zoom %.2fx", v.viewport.Zoom()))
	case '-':
		v.viewport.ZoomOut()
		v.setStatus(fmt.Sprintf("zoom %.2fx", v.viewport.Zoom()))
	case '0':
		v.fitToScreen()
		v.setStatus("fit to screen")
	case 'u':
		if _, ok := v.session.Undo(); ok {
			v.setStatus("undo")
		} else {
			v.setStatus("nothing to undo")
		}
	case 'r':
		if _, ok := v.session.Redo(); ok {
			v.setStatus("redo")
		} else {
			v.setStatus("nothing to redo")
		}
	case 'g':
		v.applyOp(transform.Filter(transform.FilterGrayscale))
	case 's':
		v.applyOp(transform.Filter(transform.FilterSepia))
	case 'b':
		v.applyOp(transform.Filter(transform.FilterBlur))
	case 'p':
		v.applyOp(transform.Filter(transform.FilterSharpen))
	case 'e':
		v.applyOp(transform.Filter(transform.FilterEdgeDetect))
	case 'h':
		v.applyOp(transform.FlipH())
	case 'v':
		v.applyOp(transform.FlipV())
	case 'w':
		v.save()
	}
	return false
}

func (v *Viewer) applyOp(op transform.Op) {
	if _, err := v.session.Apply(op); err != nil {
		v.logger.Error("applying %s: %v", op, err)
		v.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	v.setStatus(fmt.Sprintf("applied %s", op))
}

func (v *Viewer) save() {
	if v.session.IsScratch() {
		v.setStatus("no file path, use the CLI to save as")
		return
	}
	// Direct encode keeps the viewer free of the session manager.
	if err := codec.EncodeFile(v.session.Path, v.session.Engine.Snapshot(), v.enc); err != nil {
		v.logger.Error("saving: %v", err)
		v.setStatus(fmt.Sprintf("save failed: %v", err))
		return
	}
	v.session.SetModified(false)
	v.setStatus(fmt.Sprintf("saved %s", v.session.Path))
}

func (v *Viewer) setStatus(msg string) {
	v.status = msg
}

// fitToScreen fits the whole image into the image area. The vertical
// resolution doubles because each cell holds two pixel rows.
func (v *Viewer) fitToScreen() {
	cols, rows := v.screen.Size()
	imgW, imgH := v.session.Engine.Size()
	if imgW == 0 || imgH == 0 || cols == 0 || rows <= 1 {
		return
	}
	v.viewport.Fit(imgW, imgH, cols, (rows-1)*2)
	v.fitted = true
}

// === Drawing ===

func (v *Viewer) draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if rows < 2 {
		v.screen.Show()
		return
	}
	if !v.fitted {
		v.fitToScreen()
	}

	v.drawImage(cols, rows-1)
	v.drawStatus(cols, rows-1)
	v.screen.Show()
}

// drawImage paints the image area with half blocks. Each terminal cell
// (cx, cy) covers the screen-space pixels (cx, 2*cy) and (cx, 2*cy+1),
// which the viewport maps into image coordinates.
func (v *Viewer) drawImage(cols, rows int) {
	img := v.session.Engine.Image()
	if img == nil {
		return
	}
	bounds := img.Bounds()

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top, topOK := v.sample(img, bounds, cx, 2*cy)
			bot, botOK := v.sample(img, bounds, cx, 2*cy+1)
			if !topOK && !botOK {
				continue
			}

			style := tcell.StyleDefault
			if topOK {
				style = style.Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B)))
			}
			if botOK {
				style = style.Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
			}
			v.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// sample maps one screen-space pixel through the viewport and fetches
// the image color, reporting false outside the canvas.
func (v *Viewer) sample(img *image.RGBA, bounds image.Rectangle, sx, sy int) (color.RGBA, bool) {
	fx, fy := v.viewport.ScreenToImage(float64(sx), float64(sy))
	ix, iy := int(math.Floor(fx)), int(math.Floor(fy))
	if ix < bounds.Min.X || ix >= bounds.Max.X || iy < bounds.Min.Y || iy >= bounds.Max.Y {
		return color.RGBA{}, false
	}
	return img.RGBAAt(ix, iy), true
}

// drawStatus renders the bottom status line: name, size, dirty flag,
// zoom, history depths, and the last message.
func (v *Viewer) drawStatus(cols, row int) {
	imgW, imgH := v.session.Engine.Size()
	undoDepth, redoDepth := v.session.Engine.HistoryDepth()
	dirty := ""
	if v.session.IsModified() {
		dirty = " [+]"
	}
	line := fmt.Sprintf(" %s%s  %dx%d  %.2fx  undo:%d redo:%d  %s",
		v.session.Name, dirty, imgW, imgH, v.viewport.Zoom(), undoDepth, redoDepth, v.status)

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(line) {
			ch = rune(line[x])
		}
		v.screen.SetContent(x, row, ch, nil, style)
	}
}
