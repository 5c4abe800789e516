package app

import (
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/pixelstorm/internal/codec"
	"github.com/dshills/pixelstorm/internal/engine"
)

// Brush holds the freehand drawing settings a session carries between
// strokes.
type Brush struct {
	Color color.RGBA
	Width int
}

// Session represents one open image with its editing state: the
// engine (canvas + history), the file it came from, and the brush
// settings for drawing.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// Path is the absolute file path (empty for blank canvases).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	// Format is the container format the image was loaded from and
	// will be saved to unless SaveAs overrides it.
	Format codec.Format

	// Engine is the canvas and undo/redo engine.
	Engine *engine.Engine

	// Brush holds the current drawing settings.
	Brush Brush

	// modified indicates unsaved changes.
	modified atomic.Bool
}

// NewSession creates a session around an already-loaded image.
func NewSession(path string, img *image.RGBA, format codec.Format, opts ...engine.Option) (*Session, error) {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}

	eng := engine.New(opts...)
	if err := eng.Load(img); err != nil {
		return nil, err
	}

	return &Session{
		ID:     uuid.NewString(),
		Path:   path,
		Name:   name,
		Format: format,
		Engine: eng,
		Brush:  Brush{Color: color.RGBA{A: 255}, Width: 4},
	}, nil
}

// IsModified returns true if the session has unsaved changes.
func (s *Session) IsModified() bool {
	return s.modified.Load()
}

// SetModified sets the modified flag.
func (s *Session) SetModified(modified bool) {
	s.modified.Store(modified)
}

// IsScratch returns true if this session has no backing file.
func (s *Session) IsScratch() bool {
	return s.Path == ""
}

// Apply routes an operation through the session engine and marks the
// session modified on success.
func (s *Session) Apply(op engine.Op) (*image.RGBA, error) {
	img, err := s.Engine.Apply(op)
	if err != nil {
		return nil, err
	}
	s.SetModified(true)
	return img, nil
}

// Undo steps the canvas back and marks the session modified when a
// step was taken.
func (s *Session) Undo() (*image.RGBA, bool) {
	img, ok := s.Engine.Undo()
	if ok {
		s.SetModified(true)
	}
	return img, ok
}

// Redo steps the canvas forward and marks the session modified when a
// step was taken.
func (s *Session) Redo() (*image.RGBA, bool) {
	img, ok := s.Engine.Redo()
	if ok {
		s.SetModified(true)
	}
	return img, ok
}

// SessionManager manages all open editing sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // id -> session
	active   *Session
	order    []string // tracks open order for navigation

	encodeOpts codec.Options
	engineOpts []engine.Option
	brush      Brush
}

// SessionManagerOption configures a SessionManager.
type SessionManagerOption func(*SessionManager)

// WithEngineOptions sets the engine options applied to every new
// session (undo depth and so on).
func WithEngineOptions(opts ...engine.Option) SessionManagerOption {
	return func(sm *SessionManager) {
		sm.engineOpts = opts
	}
}

// WithEncodeOptions sets the encoding options used by Save and SaveAs.
func WithEncodeOptions(opts codec.Options) SessionManagerOption {
	return func(sm *SessionManager) {
		sm.encodeOpts = opts
	}
}

// WithDefaultBrush sets the brush installed on every new session.
func WithDefaultBrush(b Brush) SessionManagerOption {
	return func(sm *SessionManager) {
		if b.Width > 0 {
			sm.brush = b
		}
	}
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(opts ...SessionManagerOption) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		order:    make([]string, 0),
		brush:    Brush{Color: color.RGBA{A: 255}, Width: 4},
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// OpenFile decodes an image file into a new active session.
// Opening the same path twice creates two independent sessions.
func (sm *SessionManager) OpenFile(path string) (*Session, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	img, format, err := codec.DecodeFile(absPath)
	if err != nil {
		return nil, err
	}

	return sm.install(absPath, img, format)
}

// OpenImage wraps an in-memory image in a new active session. The
// session is a scratch session until SaveAs gives it a path.
func (sm *SessionManager) OpenImage(img *image.RGBA) (*Session, error) {
	return sm.install("", img, codec.FormatPNG)
}

func (sm *SessionManager) install(path string, img *image.RGBA, format codec.Format) (*Session, error) {
	sess, err := NewSession(path, img, format, sm.engineOpts...)
	if err != nil {
		return nil, err
	}
	sess.Brush = sm.brush

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[sess.ID] = sess
	sm.order = append(sm.order, sess.ID)
	sm.active = sess
	return sess, nil
}

// Save writes the session's current image back to its file path.
func (sm *SessionManager) Save(sess *Session) error {
	if sess.Path == "" {
		return NewOperationError("save", sess.Name, ErrNoPath)
	}
	return sm.saveTo(sess, sess.Path)
}

// SaveAs writes the session's current image to a new path and rebinds
// the session to it. The format follows the new extension.
func (sm *SessionManager) SaveAs(sess *Session, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := sm.saveTo(sess, absPath); err != nil {
		return err
	}
	sess.Path = absPath
	sess.Name = filepath.Base(absPath)
	sess.Format = codec.FormatFromPath(absPath)
	return nil
}

func (sm *SessionManager) saveTo(sess *Session, path string) error {
	img := sess.Engine.Image()
	if img == nil {
		return NewOperationError("save", path, engine.ErrNoImage)
	}
	if err := codec.EncodeFile(path, img, sm.encodeOpts); err != nil {
		return err
	}
	sess.SetModified(false)
	return nil
}

// Close removes a session by ID.
func (sm *SessionManager) Close(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess, exists := sm.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, id)
	for i, sid := range sm.order {
		if sid == id {
			sm.order = append(sm.order[:i], sm.order[i+1:]...)
			break
		}
	}

	if sm.active == sess {
		if len(sm.order) > 0 {
			sm.active = sm.sessions[sm.order[len(sm.order)-1]]
		} else {
			sm.active = nil
		}
	}

	return nil
}

// Active returns the currently active session, or nil.
func (sm *SessionManager) Active() *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.active
}

// SetActive sets the active session by ID.
func (sm *SessionManager) SetActive(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess, exists := sm.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}
	sm.active = sess
	return nil
}

// Get returns a session by ID.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, exists := sm.sessions[id]
	return sess, exists
}

// List returns all open sessions in open order.
func (sm *SessionManager) List() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make([]*Session, 0, len(sm.sessions))
	for _, id := range sm.order {
		if sess, exists := sm.sessions[id]; exists {
			out = append(out, sess)
		}
	}
	return out
}

// Count returns the number of open sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// HasDirty returns true if any session has unsaved changes.
func (sm *SessionManager) HasDirty() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, sess := range sm.sessions {
		if sess.IsModified() {
			return true
		}
	}
	return false
}
