package pfamprep

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/pfamprep/split"
)

// Logger wraps slog.Logger with pipeline-specific helpers.
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

// NewJSONLogger creates a Logger that writes JSON lines to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithStage adds a stage field to the logger.
func (l *Logger) WithStage(stage string) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", stage),
	}
}

// LogStage logs the outcome of a pipeline stage.
func (l *Logger) LogStage(ctx context.Context, stage string, rows int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "stage failed",
			"stage", stage,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "stage completed",
		"stage", stage,
		"rows", rows,
		"elapsed", elapsed,
	)
}

// LogSplit logs the class-count distribution and the resulting split sizes.
func (l *Logger) LogSplit(ctx context.Context, s split.Summary, train, dev, test int) {
	l.InfoContext(ctx, "split computed",
		"rows", s.Rows,
		"classes", s.Classes,
		"singletons", s.Singletons,
		"pairs", s.Pairs,
		"triples", s.Triples,
		"shuffled", s.Shuffled,
		"median_class_size", s.Median,
		"p90_class_size", s.P90,
		"largest_class", s.Largest,
		"train", train,
		"dev", dev,
		"test", test,
	)
}

// LogUpload logs a single artifact upload.
func (l *Logger) LogUpload(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upload failed",
			"blob", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "upload completed",
		"blob", name,
		"bytes", size,
	)
}
