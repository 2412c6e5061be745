package ndstats

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with ndstats-specific fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithAxis adds an axis field.
func (l *Logger) WithAxis(axis int) *Logger {
	return &Logger{Logger: l.Logger.With("axis", axis)}
}

// WithLevels adds a levels field.
func (l *Logger) WithLevels(levels []float64) *Logger {
	return &Logger{Logger: l.Logger.With("levels", levels)}
}

// WithShape adds a shape field.
func (l *Logger) WithShape(shape []int) *Logger {
	return &Logger{Logger: l.Logger.With("shape", shape)}
}

// passStats describes one completed pass over the lanes of an array.
type passStats struct {
	op       string
	lanes    int
	workers  int
	duration time.Duration
}

// logPass logs the outcome of an axis pass.
func (l *Logger) logPass(ctx context.Context, s passStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, s.op+" failed",
			"lanes", s.lanes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, s.op+" completed",
		"lanes", s.lanes,
		"workers", s.workers,
		"duration", s.duration,
	)
}

// LogReduce logs the outcome of a whole-array reduction.
func (l *Logger) LogReduce(ctx context.Context, op string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, op+" completed",
		"size", size,
	)
}
