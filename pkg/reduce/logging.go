package reduce

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger wraps zap.Logger with engine-specific structured logging. All
// methods are safe on a nil receiver so logging stays optional.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a new Logger. If logger is nil, uses a no-op logger.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("reduce")}
}

// RunStarted logs the beginning of a processing run.
func (l *Logger) RunStarted(ctx context.Context, runID string, items, inputChars int, cfg Config) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("items", items),
		zap.Int("input_chars", inputChars),
		zap.Int("max_context_chars", cfg.MaxContextChars),
		zap.Int("max_recursion_depth", cfg.MaxRecursionDepth),
		zap.String("oversized_item_strategy", string(cfg.Oversized)),
		zap.String("consolidation_strategy", string(cfg.Consolidation)),
	)
	l.logger.Info("run started", fields...)
}

// LevelStarted logs the beginning of one map pass.
func (l *Logger) LevelStarted(ctx context.Context, runID string, level, items, batches int) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("level", level),
		zap.Int("items", items),
		zap.Int("batches", batches),
	)
	l.logger.Debug("level started", fields...)
}

// BatchExtracted logs a completed extraction call.
func (l *Logger) BatchExtracted(ctx context.Context, runID string, level, batch, chars int, confidence float64, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("level", level),
		zap.Int("batch", batch),
		zap.Int("batch_chars", chars),
		zap.Float64("confidence", confidence),
		zap.Duration("duration", duration),
	)
	l.logger.Debug("batch extracted", fields...)
}

// ExtractFailed logs a per-batch extraction failure that was absorbed.
func (l *Logger) ExtractFailed(ctx context.Context, runID string, level, batch int, err error) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("level", level),
		zap.Int("batch", batch),
		zap.Error(err),
	)
	l.logger.Warn("batch extraction failed", fields...)
}

// ItemSkipped logs an oversized item dropped under the skip strategy.
func (l *Logger) ItemSkipped(ctx context.Context, runID string, level, index int) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("level", level),
		zap.Int("item_index", index),
	)
	l.logger.Warn("oversized item skipped", fields...)
}

// ProgressPanicked logs a recovered panic from the caller's progress sink.
func (l *Logger) ProgressPanicked(ctx context.Context, runID string, stage Stage, recovered any) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.String("stage", string(stage)),
		zap.Any("panic", recovered),
	)
	l.logger.Warn("progress sink panicked", fields...)
}

// RunFailed logs a run aborted by an error.
func (l *Logger) RunFailed(ctx context.Context, runID string, level int, err error) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.Int("level", level),
		zap.Error(err),
	)
	l.logger.Error("run failed", fields...)
}

// RunCompleted logs the terminal state of a run.
func (l *Logger) RunCompleted(ctx context.Context, runID string, status Status, levels, batches, failures int, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, runID)
	fields = append(fields,
		zap.String("status", string(status)),
		zap.Int("levels", levels),
		zap.Int("batches", batches),
		zap.Int("extract_failures", failures),
		zap.Duration("duration", duration),
	)
	l.logger.Info("run completed", fields...)
}

// baseFields returns common fields for run events.
func (l *Logger) baseFields(ctx context.Context, runID string) []zap.Field {
	fields := []zap.Field{
		zap.String("run_id", runID),
	}
	return append(fields, l.traceFields(ctx)...)
}

// traceFields extracts trace context from the context.
func (l *Logger) traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
