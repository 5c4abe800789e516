package app

import (
	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/config"
	"github.com/dshills/pixelstorm/internal/engine"
	"github.com/dshills/pixelstorm/internal/transform"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is the configuration file path. Empty uses defaults.
	ConfigPath string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// Debug forces debug-level logging.
	Debug bool
}

// App wires the configuration, logger, and session manager together.
// One App exists per process; commands pull their collaborators from
// it instead of constructing their own.
type App struct {
	opts     Options
	cfg      *config.Config
	logger   *Logger
	sessions *SessionManager
}

// New creates and initializes the application.
// Components are initialized in dependency order.
func New(opts Options) (*App, error) {
	app := &App{opts: opts}

	// 1. Logger first so later failures can be reported.
	level := ParseLogLevel(opts.LogLevel)
	if opts.Debug {
		level = LogLevelDebug
	}
	app.logger = NewLogger(LoggerConfig{
		Level:  level,
		Prefix: "pixelstorm",
	})
	SetLogger(app.logger)

	// 2. Configuration. A missing file falls back to defaults inside
	// config.Load; a malformed file is fatal.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, NewInitError("config", err)
	}
	app.cfg = cfg

	// 3. Session manager, configured from the loaded snapshot. A bad
	// brush color is non-fatal: warn and keep the default.
	brush := Brush{Width: cfg.Brush.Width}
	if c, err := transform.ParseColor(cfg.Brush.Color); err != nil {
		app.logger.WithComponent("app").Warn("invalid brush color %q, using default", cfg.Brush.Color)
		brush.Color, _ = transform.ParseColor(config.DefaultBrushColor)
	} else {
		brush.Color = c
	}

	app.sessions = NewSessionManager(
		WithEngineOptions(engine.WithMaxUndoDepth(cfg.Editor.MaxUndoDepth)),
		WithEncodeOptions(codec.Options{JPEGQuality: cfg.Encode.JPEGQuality}),
		WithDefaultBrush(brush),
	)

	app.logger.WithComponent("app").Debug("initialized (undo depth %d)", cfg.Editor.MaxUndoDepth)
	return app, nil
}

// Config returns the loaded configuration snapshot.
func (app *App) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *App) Logger() *Logger {
	if app.logger == nil {
		return GetLogger()
	}
	return app.logger
}

// Sessions returns the session manager.
func (app *App) Sessions() *SessionManager {
	return app.sessions
}

// ActiveSession returns the active session or ErrNoActiveSession.
func (app *App) ActiveSession() (*Session, error) {
	sess := app.sessions.Active()
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}
