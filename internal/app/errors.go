package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrNoActiveSession indicates no editing session is currently active.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionNotFound indicates a session was not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoPath indicates a save was requested for a session without a file path.
	ErrNoPath = errors.New("session has no file path")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "save", "open", "apply")
	Target  string // Target of the operation (e.g., file path, session name)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// InitError represents an initialization failure in a specific component.
type InitError struct {
	Component string // Component name (e.g., "config", "sessions")
	Err       error  // Underlying error
}

// NewInitError creates a new InitError.
func NewInitError(component string, err error) *InitError {
	return &InitError{
		Component: component,
		Err:       err,
	}
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("initializing %s", e.Component)
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for InitError. All InitErrors match
// ErrInitialization in addition to their wrapped cause.
func (e *InitError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrInitialization {
		return true
	}
	if t, ok := target.(*InitError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
