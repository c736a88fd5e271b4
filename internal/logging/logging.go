// Package logging builds the slog logger used by the pulsecheck commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures [New].
type Options struct {
	// Level is one of debug, info, warn or error. Defaults to info.
	Level string

	// Format is "json" or "text". Defaults to text.
	Format string

	// File, when set, sends logs to a rotating file instead of Writer.
	File string

	// Writer receives logs when File is empty. Defaults to os.Stderr.
	Writer io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for opts and a closer releasing its output.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = opts.Writer
		closer io.Closer = nopCloser{}
	)
	if w == nil {
		w = os.Stderr
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		w, closer = rotating, rotating
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name to a [slog.Level], defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
