// =============================================================================
// Cartera Report - Logger
// =============================================================================
//
// This module provides the Logger interface used throughout the application
// and its zerolog-backed implementation.
//
// OUTPUT FORMATS:
//   - console: human readable lines (zerolog.ConsoleWriter), the CLI default
//   - json:    one JSON object per line, intended for the HTTP server
//
// USAGE:
//   log, err := logger.New(logger.Options{Level: "info", Format: "console"})
//   log.Info("built report with %d page(s)", pages)
//   reqLog := log.With("request_id", id)
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// LOGGER INTERFACE
// =============================================================================

// Logger is the logging interface accepted by every component.
// Messages are printf-style format strings.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// With returns a child logger that attaches key=value to every line.
	With(key string, value interface{}) Logger
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how a Logger is constructed.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info".
	Level string

	// Format is "console" or "json". Default: "console".
	Format string

	// Output is where log lines are written. Default: os.Stderr.
	Output io.Writer
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a zerolog-backed Logger.
//
// RETURNS:
//   - The logger.
//   - An error if Level or Format is not recognized.
func New(opts Options) (Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime, NoColor: !isTerminal(out)}
	case "json":
	default:
		return nil, fmt.Errorf("unknown log format %q (expected console or json)", opts.Format)
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}, nil
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

// parseLevel maps the configured level name to a zerolog level.
func parseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// ZEROLOG IMPLEMENTATION
// =============================================================================

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msgf(msg, args...)
}

func (l *zeroLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msgf(msg, args...)
}

func (l *zeroLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msgf(msg, args...)
}

func (l *zeroLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msgf(msg, args...)
}

func (l *zeroLogger) With(key string, value interface{}) Logger {
	return &zeroLogger{zl: l.zl.With().Interface(key, value).Logger()}
}
