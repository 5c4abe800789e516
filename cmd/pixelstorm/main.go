// Package main is the entry point for the pixelstorm image editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/pixelstorm/internal/app"
	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/config"
	"github.com/dshills/pixelstorm/internal/histogram"
	"github.com/dshills/pixelstorm/internal/preset"
	"github.com/dshills/pixelstorm/internal/script"
	"github.com/dshills/pixelstorm/internal/server"
	"github.com/dshills/pixelstorm/internal/transform"
	"github.com/dshills/pixelstorm/internal/tui"
	"github.com/dshills/pixelstorm/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "edit":
		return cmdEdit(args)
	case "convert":
		return cmdConvert(args)
	case "info":
		return cmdInfo(args)
	case "view":
		return cmdView(args)
	case "script":
		return cmdScript(args)
	case "serve":
		return cmdServe(args)
	case "version", "-version", "--version", "-v":
		fmt.Printf("pixelstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	case "help", "-help", "--help", "-h":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Pixelstorm - terminal raster image editor\n\n")
	fmt.Fprintf(os.Stderr, "Usage: pixelstorm <command> [options] [arguments]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  edit     Apply operations to an image file\n")
	fmt.Fprintf(os.Stderr, "  convert  Convert an image between formats\n")
	fmt.Fprintf(os.Stderr, "  info     Print image metadata and channel statistics\n")
	fmt.Fprintf(os.Stderr, "  view     Open the interactive viewer\n")
	fmt.Fprintf(os.Stderr, "  script   Run a Lua batch-editing script\n")
	fmt.Fprintf(os.Stderr, "  serve    Serve an image session over HTTP\n")
	fmt.Fprintf(os.Stderr, "  version  Show version information\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  pixelstorm edit -out small.png photo.png resize:800x600 filter:sharpen\n")
	fmt.Fprintf(os.Stderr, "  pixelstorm convert photo.png photo.jpg\n")
	fmt.Fprintf(os.Stderr, "  pixelstorm view photo.png\n")
	fmt.Fprintf(os.Stderr, "  pixelstorm serve -addr :8140 photo.png\n")
}

// commonFlags registers the flags shared by every subcommand.
func commonFlags(fs *flag.FlagSet) *app.Options {
	opts := &app.Options{}
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	return opts
}

func newApp(opts *app.Options) (*app.App, int) {
	application, err := app.New(*opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return nil, 1
	}
	return application, 0
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// cmdEdit opens a file, applies a preset and/or a list of operations,
// and writes the result.
func cmdEdit(args []string) int {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	opts := commonFlags(fs)
	out := fs.String("out", "", "Output path (default: overwrite the input)")
	presetPath := fs.String("preset", "", "YAML preset applied before the operation arguments")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm edit [options] <file> [op ...]\n\n")
		fmt.Fprintf(os.Stderr, "Operations: crop:X,Y,W,H resize:WxH rotate:DEG flip:h|v\n")
		fmt.Fprintf(os.Stderr, "            adjust:brightness=F,contrast=F,saturation=F\n")
		fmt.Fprintf(os.Stderr, "            filter:NAME stroke:X,Y;X,Y@#RRGGBB@WIDTH\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	var ops []transform.Op
	if *presetPath != "" {
		p, err := preset.LoadFile(*presetPath)
		if err != nil {
			return fail(err)
		}
		ops = append(ops, p.Ops...)
	}
	parsed, err := transform.ParseOps(fs.Args()[1:])
	if err != nil {
		return fail(err)
	}
	ops = append(ops, parsed...)

	if len(ops) == 0 {
		return fail(errors.New("no operations given"))
	}

	application, code := newApp(opts)
	if code != 0 {
		return code
	}

	sess, err := application.Sessions().OpenFile(path)
	if err != nil {
		return fail(err)
	}
	for _, op := range ops {
		if _, err := sess.Apply(op); err != nil {
			return fail(err)
		}
	}

	if *out != "" {
		err = application.Sessions().SaveAs(sess, *out)
	} else {
		err = application.Sessions().Save(sess)
	}
	if err != nil {
		return fail(err)
	}

	w, h := sess.Engine.Size()
	fmt.Printf("%s: applied %d operation(s), %dx%d\n", sess.Path, len(ops), w, h)
	return 0
}

// cmdConvert re-encodes an image in the format implied by the output
// extension.
func cmdConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	opts := commonFlags(fs)
	quality := fs.Int("quality", 0, "JPEG quality 1-100 (default: from configuration)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm convert [options] <input> <output>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	application, code := newApp(opts)
	if code != 0 {
		return code
	}

	img, format, err := codec.DecodeFile(fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	enc := codec.Options{JPEGQuality: application.Config().Encode.JPEGQuality}
	if *quality > 0 {
		enc.JPEGQuality = *quality
	}
	if err := codec.EncodeFile(fs.Arg(1), img, enc); err != nil {
		return fail(err)
	}

	outFormat := codec.FormatFromPath(fs.Arg(1))
	fmt.Printf("%s (%s) -> %s (%s)\n", fs.Arg(0), format, fs.Arg(1), outFormat)
	return 0
}

// cmdInfo prints image metadata and per-channel statistics.
func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	commonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm info <file>\n")
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	img, format, err := codec.DecodeFile(fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	h := histogram.Compute(img)
	stats := h.Stats()
	bounds := img.Bounds()

	fmt.Printf("File:    %s\n", fs.Arg(0))
	fmt.Printf("Format:  %s\n", format)
	fmt.Printf("Size:    %dx%d (%d pixels)\n", bounds.Dx(), bounds.Dy(), h.Pixels)
	fmt.Printf("Red:     mean %.1f, stddev %.1f, median %.0f\n", stats.R.Mean, stats.R.StdDev, stats.R.Median)
	fmt.Printf("Green:   mean %.1f, stddev %.1f, median %.0f\n", stats.G.Mean, stats.G.StdDev, stats.G.Median)
	fmt.Printf("Blue:    mean %.1f, stddev %.1f, median %.0f\n", stats.B.Mean, stats.B.StdDev, stats.B.Median)
	return 0
}

// cmdView opens the interactive terminal viewer.
func cmdView(args []string) int {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	opts := commonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm view [options] <file>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	application, code := newApp(opts)
	if code != 0 {
		return code
	}

	sess, err := application.Sessions().OpenFile(fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	cfg := application.Config()
	viewport := view.New(
		view.WithZoomStep(cfg.View.ZoomStep),
		view.WithZoomRange(cfg.View.MinZoom, cfg.View.MaxZoom),
	)
	viewer, err := tui.NewViewer(sess,
		tui.WithLogger(application.Logger()),
		tui.WithViewport(viewport),
		tui.WithEncodeOptions(codec.Options{JPEGQuality: cfg.Encode.JPEGQuality}),
	)
	if err != nil {
		return fail(err)
	}

	if err := viewer.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		return fail(err)
	}
	return 0
}

// cmdScript runs a Lua batch-editing script.
func cmdScript(args []string) int {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	opts := commonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm script [options] <file.lua>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	application, code := newApp(opts)
	if code != 0 {
		return code
	}

	cfg := application.Config()
	brush := app.Brush{Width: cfg.Brush.Width}
	if c, err := transform.ParseColor(cfg.Brush.Color); err == nil {
		brush.Color = c
	}

	runner := script.NewRunner(
		script.WithLogger(application.Logger()),
		script.WithBrush(brush),
		script.WithEncodeOptions(codec.Options{JPEGQuality: cfg.Encode.JPEGQuality}),
	)
	defer runner.Close()

	if err := runner.DoFile(fs.Arg(0)); err != nil {
		return fail(err)
	}
	return 0
}

// cmdServe exposes one editing session over HTTP until interrupted.
func cmdServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	opts := commonFlags(fs)
	addr := fs.String("addr", "", "Listen address (default: from configuration)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelstorm serve [options] <file>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	application, code := newApp(opts)
	if code != 0 {
		return code
	}

	sess, err := application.Sessions().OpenFile(fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	listenAddr := application.Config().Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	// Pick up config edits while serving.
	if opts.ConfigPath != "" {
		watcher := config.NewWatcher(opts.ConfigPath, func(cfg *config.Config) {
			if c, err := transform.ParseColor(cfg.Brush.Color); err == nil {
				sess.Brush = app.Brush{Color: c, Width: cfg.Brush.Width}
			}
			application.Logger().Info("configuration reloaded from %s", opts.ConfigPath)
		})
		if err := watcher.Start(); err != nil {
			application.Logger().Warn("config watcher unavailable: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	srv := server.New(listenAddr, sess,
		server.WithLogger(application.Logger()),
		server.WithVersion(version),
	)

	// Shut down cleanly on SIGINT/SIGTERM.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fail(err)
	}
	return 0
}
