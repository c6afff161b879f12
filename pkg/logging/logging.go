// Package logging builds the process-wide slog logger.
//
// Production uses JSON on stdout; development uses tint's coloured handler on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger for the given environment and level name (debug, info, warn, error).
func New(isProduction bool, level string) *slog.Logger {
	if isProduction {
		return NewWithWriter(os.Stdout, true, level)
	}
	return NewWithWriter(os.Stderr, false, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, isProduction bool, level string) *slog.Logger {
	lvl := ParseLevel(level)
	if isProduction {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
		AddSource:  lvl == slog.LevelDebug,
	}))
}

// ParseLevel maps a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
