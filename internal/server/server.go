// Package server exposes a single editing session over HTTP. It backs
// the serve command: the session's image, metadata, and histogram are
// readable, and operations, undo, and redo are applied with POST
// requests.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dshills/pixelstorm/internal/app"
)

// Timeouts for the HTTP server.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Server serves one editing session over HTTP.
type Server struct {
	session *app.Session
	logger  *app.Logger
	version string

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and lifecycle logging.
func WithLogger(logger *app.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger.WithComponent("server")
		}
	}
}

// WithVersion sets the version string reported by GET /version.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// New creates a server for the given session listening on addr.
func New(addr string, session *app.Session, opts ...Option) *Server {
	s := &Server{
		session: session,
		logger:  app.NullLogger,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
	return s
}

// router builds the chi route tree.
func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/image", s.handleImage)
		r.Get("/info", s.handleInfo)
		r.Get("/histogram", s.handleHistogram)
		r.Post("/ops", s.handleOps)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
	})

	return r
}

// Handler returns the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops. http.ErrServerClosed
// is filtered out so a clean Shutdown reports no error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}

// logRequests logs method, path, status, and duration per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
