package script

import "errors"

// Package errors.
var (
	// ErrRunnerClosed is returned when a script runs against a closed
	// Runner.
	ErrRunnerClosed = errors.New("script runner is closed")
)
