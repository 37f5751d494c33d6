package logging

import (
	"io"
	"log/slog"
)

// Logger is the public logger instance accessible from all packages.
// It discards everything until Initialize is called.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Initialize points the logger at w. Warnings always get through; debug
// adds per-fixture detail such as exit code mismatches.
func Initialize(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
