// Package logging provides structured logging using Go's slog package.
// Logs go to stderr; stdout is reserved for command output.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RunIDKey is the context key for the run ID of one CLI invocation.
	RunIDKey ContextKey = "run_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	InitLogger(LevelInfo, FormatText)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseFormat converts "json" or "text" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "":
		return FormatText, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// InitLogger initializes the global logger writing to stderr.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo initializes the global logger writing to w.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	defaultLogger = New(w, level, format)
	slog.SetDefault(defaultLogger)
}

// New builds a logger without installing it.
func New(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       slogLevel(level),
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
	}
	return a
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// ParseSummary logs the outcome of one parse.
func ParseSummary(ctx context.Context, source string, doc scripture.Stats, events *gutenberg.Stats, duration time.Duration) {
	args := []any{
		"source", source,
		"old_books", doc.OldBooks,
		"new_books", doc.NewBooks,
		"chapters", doc.Chapters,
		"verses", doc.Verses,
		"duration_ms", duration.Milliseconds(),
	}
	if events != nil {
		args = append(args,
			"suppressed", events.Count(gutenberg.EventBookSuppressed),
			"dropped_books", events.Count(gutenberg.EventBookDropped),
			"dropped_lines", events.Count(gutenberg.EventLineDropped),
		)
	}
	LoggerFromContext(ctx).Info("parse_complete", args...)
}

// Tracer returns a gutenberg.Tracer that logs every parse event at debug
// level. Suppressed books are logged at warn level.
func Tracer(ctx context.Context) gutenberg.Tracer {
	logger := LoggerFromContext(ctx)
	return gutenberg.TracerFunc(func(e gutenberg.Event) {
		args := []any{"kind", e.Kind.String(), "line", e.Line}
		if e.Book != "" {
			args = append(args, "book", e.Book)
		}
		if e.Chapter != "" {
			args = append(args, "chapter", e.Chapter)
		}
		if e.Verse != "" {
			args = append(args, "verse", e.Verse)
		}
		if e.Reason != "" {
			args = append(args, "reason", e.Reason)
		}
		if e.Kind == gutenberg.EventBookSuppressed {
			logger.Warn("parse_event", args...)
			return
		}
		logger.Debug("parse_event", args...)
	})
}

// OutputWritten logs one encoded output file.
func OutputWritten(ctx context.Context, format, path string, size int64, args ...any) {
	allArgs := []any{
		"format", format,
		"path", path,
		"bytes", size,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("output_written", allArgs...)
}

// CacheLookup logs a parse-cache hit or miss.
func CacheLookup(ctx context.Context, key string, hit bool, args ...any) {
	allArgs := []any{
		"key", key,
		"hit", hit,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Debug("cache_lookup", allArgs...)
}
