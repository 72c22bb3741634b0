/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package logging configures the process-wide slog logger.
//
// Level comes from the explicit option or, failing that, the LOG_LEVEL
// environment variable. Output goes to stderr unless a log file is set, in
// which case a size-rotated file is used.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Level overrides LOG_LEVEL when non-empty.
	Level string
	// JSON selects the JSON handler instead of text.
	JSON bool
	// File, when set, sends logs to a rotated file instead of stderr.
	File string
	// Writer overrides the destination entirely (tests).
	Writer io.Writer
	// Attrs are key-value pairs added to every record.
	Attrs []any
}

// ParseLogLevel converts a level name into a slog.Level. Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
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

// New builds a logger tagged with the module name and version.
func New(name, version string, opts Options) *slog.Logger {
	level := opts.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	var w io.Writer = os.Stderr
	switch {
	case opts.Writer != nil:
		w = opts.Writer
	case opts.File != "":
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLogLevel(level),
		AddSource: ParseLogLevel(level) == slog.LevelDebug,
	}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(h).With(append([]any{"module", name, "version", version}, opts.Attrs...)...)
}

// SetDefaultLogger installs a logger built from opts as the slog default.
func SetDefaultLogger(name, version string, opts Options) *slog.Logger {
	l := New(name, version, opts)
	slog.SetDefault(l)
	return l
}
