// Package logging provides structured logging infrastructure for the
// ventasync application. It wraps Go's standard log/slog package with
// context-aware logging and sync-domain log attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// contextKey is used for storing logger-related values in context.
type contextKey string

const (
	// CycleIDKey is the context key for sync cycle IDs.
	CycleIDKey contextKey = "cycle_id"
	// EntityTypeKey is the context key for the entity type a cycle operates on.
	EntityTypeKey contextKey = "entity_type"
	// EndpointKey is the context key for remote endpoint names.
	EndpointKey contextKey = "endpoint"
)

// Level represents log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	AddSource  bool
	TimeFormat string
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     FormatText,
		Output:     os.Stderr,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality for ventasync.
type Logger struct {
	slogger *slog.Logger
	level   slog.Level
}

// global is the package-level default logger.
var (
	global     *Logger
	globalOnce sync.Once
)

// Init initializes the global logger with the provided configuration.
func Init(cfg Config) *Logger {
	globalOnce.Do(func() {
		global = New(cfg)
	})
	return global
}

// Default returns the global logger, initializing it with defaults if necessary.
func Default() *Logger {
	if global == nil {
		Init(DefaultConfig())
	}
	return global
}

// New creates a new Logger with the provided configuration.
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize time format
			if a.Key == slog.TimeKey && cfg.TimeFormat != "" {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		slogger: slog.New(handler),
		level:   level,
	}
}

// parseLevel converts a Level to slog.Level.
func parseLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slogger: l.slogger.With(args...),
		level:   l.level,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// DebugContext logs at debug level with context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// InfoContext logs at info level with context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// WarnContext logs at warn level with context.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// ErrorContext logs at error level with context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// enrichArgs extracts context values and adds them as log attributes.
func (l *Logger) enrichArgs(ctx context.Context, args []any) []any {
	enriched := make([]any, 0, len(args)+6)

	if v := ctx.Value(CycleIDKey); v != nil {
		enriched = append(enriched, "cycle_id", v)
	}
	if v := ctx.Value(EntityTypeKey); v != nil {
		enriched = append(enriched, "entity_type", v)
	}
	if v := ctx.Value(EndpointKey); v != nil {
		enriched = append(enriched, "endpoint", v)
	}

	enriched = append(enriched, args...)
	return enriched
}

// Underlying returns the underlying slog.Logger.
func (l *Logger) Underlying() *slog.Logger {
	return l.slogger
}

// --- Context helpers ---

// WithCycleID adds a sync cycle ID to the context.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CycleIDKey, id)
}

// WithEntityType adds an entity type to the context.
func WithEntityType(ctx context.Context, entityType string) context.Context {
	return context.WithValue(ctx, EntityTypeKey, entityType)
}

// WithEndpoint adds a remote endpoint name to the context.
func WithEndpoint(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, EndpointKey, name)
}

// CycleID extracts the sync cycle ID from context.
func CycleID(ctx context.Context) string {
	if v := ctx.Value(CycleIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// --- Domain-specific logging helpers ---

// LogCycleStart logs the start of a sync cycle.
func LogCycleStart(ctx context.Context, logger *Logger, entityType string, pending int) {
	logger.InfoContext(ctx, "sync cycle started",
		"entity_type", entityType,
		"pending_records", pending,
	)
}

// LogCycleComplete logs the completion of a sync cycle.
func LogCycleComplete(ctx context.Context, logger *Logger, entityType string, accepted, conflicted, purged int, duration time.Duration) {
	logger.InfoContext(ctx, "sync cycle completed",
		"entity_type", entityType,
		"accepted", accepted,
		"conflicted", conflicted,
		"purged", purged,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogCycleFailed logs a failed sync cycle.
func LogCycleFailed(ctx context.Context, logger *Logger, entityType string, err error, duration time.Duration) {
	logger.ErrorContext(ctx, "sync cycle failed",
		"entity_type", entityType,
		"error", err.Error(),
		"duration_ms", duration.Milliseconds(),
	)
}

// LogConflictResolved logs a conflict resolved by last-writer-wins.
func LogConflictResolved(ctx context.Context, logger *Logger, entityType, recordID string) {
	logger.DebugContext(ctx, "conflict resolved with server copy",
		"entity_type", entityType,
		"record_id", recordID,
	)
}
