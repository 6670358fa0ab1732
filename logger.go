package graphgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with graphgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
// A nil writer means stderr.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
// A nil writer means stderr.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithGraph adds the graph name to the logger.
func (l *Logger) WithGraph(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("graph", name),
	}
}

// LogBuild logs a graph construction.
func (l *Logger) LogBuild(ctx context.Context, name string, nodes, edges uint64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "graph build failed",
			"graph", name,
			"duration", duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "graph built",
		"graph", name,
		"nodes", nodes,
		"edges", edges,
		"duration", duration,
	)
}

// LogWalks logs a walk generation.
func (l *Logger) LogWalks(ctx context.Context, walks int, walkLength uint64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "walk generation failed",
			"walk_length", walkLength,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "walks generated",
		"walks", walks,
		"walk_length", walkLength,
		"duration", duration,
	)
}

// LogBatch logs the assembly of a training batch.
func (l *Logger) LogBatch(ctx context.Context, kind string, rows int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch failed",
			"kind", kind,
			"error", err,
		)
		return
	}
	if rows == 0 {
		l.WarnContext(ctx, "batch is empty",
			"kind", kind,
		)
		return
	}
	l.DebugContext(ctx, "batch assembled",
		"kind", kind,
		"rows", rows,
		"duration", duration,
	)
}

// LogTransform logs a graph transformation such as a filter or a holdout.
func (l *Logger) LogTransform(ctx context.Context, op, source string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "transformation failed",
			"operation", op,
			"graph", source,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "transformation completed",
		"operation", op,
		"graph", source,
		"duration", duration,
	)
}
