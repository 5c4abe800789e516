package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf, Prefix: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the level were written")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the level were dropped")
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	logger.WithComponent("engine").WithField("op", "crop").Info("applied")

	out := buf.String()
	if !strings.Contains(out, "component=engine") {
		t.Errorf("output missing component field: %q", out)
	}
	if !strings.Contains(out, "op=crop") {
		t.Errorf("output missing op field: %q", out)
	}
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("output missing level tag: %q", out)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	logger.Info("resized to %dx%d", 800, 600)
	if !strings.Contains(buf.String(), "resized to 800x600") {
		t.Errorf("formatted args missing: %q", buf.String())
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	// Must not panic and must write nothing anywhere.
	NullLogger.Error("into the void")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"bogus", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
