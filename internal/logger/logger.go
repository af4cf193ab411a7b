// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Records go through log/slog with a tint
// handler, so they are colourised on a terminal and plain otherwise.
// The logger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// levelSilent sits above every slog level, so nothing passes it.
const levelSilent = slog.Level(100)

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	level *slog.LevelVar
	slog  *slog.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	lv := new(slog.LevelVar)
	lv.Set(toSlog(level))

	h := tint.NewHandler(out, &tint.Options{
		Level:      lv,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(out),
	})

	return &Logger{level: lv, slog: slog.New(h)}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(toSlog(level))
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch l.level.Level() {
	case slog.LevelDebug:
		return LevelVerbose
	case levelSilent:
		return LevelOff
	default:
		return LevelNormal
	}
}

// With returns a logger that adds the given key/value attributes to every
// record. The returned logger shares the level of its parent.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{level: l.level, slog: l.slog.With(args...)}
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.slog.Debug(fmt.Sprintf(format, args...))
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.slog.Info(fmt.Sprintf(format, args...))
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.slog.Warn(fmt.Sprintf(format, args...))
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.slog.Error(fmt.Sprintf(format, args...))
}

// ParseLevel maps a config string to a Level. Unknown strings map to
// LevelNormal.
func ParseLevel(s string) Level {
	switch s {
	case "off", "quiet", "none":
		return LevelOff
	case "debug", "verbose":
		return LevelVerbose
	default:
		return LevelNormal
	}
}

func toSlog(level Level) slog.Level {
	switch level {
	case LevelOff:
		return levelSilent
	case LevelVerbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
