// Package logging builds the process slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/msomdec/quizcert/internal/config"
)

// New creates a logger for cfg writing to out.
//
// Format "json" produces structured JSON output (production), "text" the
// slog key=value format with source info, and "pretty" a coloured console
// line for local development. Level is one of debug, info, warn, error.
func New(cfg config.LogConfig, out io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "pretty":
		handler = NewPrettyHandler(out, level)
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level, AddSource: true})
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
