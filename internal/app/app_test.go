package app

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/pixelstorm/internal/engine/canvas"
)

func TestNewWithDefaults(t *testing.T) {
	application, err := New(Options{LogLevel: "error"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if application.Config() == nil {
		t.Fatal("Config() is nil")
	}
	if application.Sessions() == nil {
		t.Fatal("Sessions() is nil")
	}
	if application.Config().Editor.MaxUndoDepth != 50 {
		t.Errorf("default MaxUndoDepth = %d, want 50", application.Config().Editor.MaxUndoDepth)
	}
}

func TestNewLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelstorm.toml")
	content := "[editor]\nmax_undo_depth = 25\n\n[brush]\ncolor = \"#ff0000\"\nwidth = 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	application, err := New(Options{ConfigPath: path, LogLevel: "error"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if application.Config().Editor.MaxUndoDepth != 25 {
		t.Errorf("MaxUndoDepth = %d, want 25", application.Config().Editor.MaxUndoDepth)
	}

	sess, err := application.Sessions().OpenImage(canvas.Uniform(4, 4, color.RGBA{A: 255}))
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	want := color.RGBA{R: 255, A: 255}
	if sess.Brush.Color != want || sess.Brush.Width != 7 {
		t.Errorf("brush = %+v, want color %v width 7", sess.Brush, want)
	}
	if sess.Engine.MaxDepth() != 25 {
		t.Errorf("engine MaxDepth = %d, want 25", sess.Engine.MaxDepth())
	}
}

func TestNewMalformedConfigIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[editor\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{ConfigPath: path, LogLevel: "error"})
	if !errors.Is(err, ErrInitialization) {
		t.Fatalf("New(malformed config) = %v, want ErrInitialization", err)
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Errorf("error = %v, want InitError{Component: config}", err)
	}
}

func TestActiveSession(t *testing.T) {
	application, err := New(Options{LogLevel: "error"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := application.ActiveSession(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("ActiveSession() = %v, want ErrNoActiveSession", err)
	}

	sess, err := application.Sessions().OpenImage(canvas.Uniform(2, 2, color.RGBA{A: 255}))
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	got, err := application.ActiveSession()
	if err != nil || got != sess {
		t.Errorf("ActiveSession() = (%v, %v), want opened session", got, err)
	}
}
