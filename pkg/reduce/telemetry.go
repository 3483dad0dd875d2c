package reduce

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/condense/pkg/reduce"

// Metrics provides OpenTelemetry metrics for the engine. All Record
// methods are safe on a nil receiver.
type Metrics struct {
	runsTotal            metric.Int64Counter
	batchesTotal         metric.Int64Counter
	extractFailuresTotal metric.Int64Counter
	itemsSkippedTotal    metric.Int64Counter

	runDuration     metric.Float64Histogram
	recursionLevels metric.Int64Histogram
	batchChars      metric.Int64Histogram

	initialized bool
}

// NewMetrics creates a new Metrics instance with the provided meter.
// If meter is nil, uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.runsTotal, err = meter.Int64Counter(
		"reduce.runs.total",
		metric.WithDescription("Total number of processing runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	m.batchesTotal, err = meter.Int64Counter(
		"reduce.batches.total",
		metric.WithDescription("Total number of batches extracted"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	m.extractFailuresTotal, err = meter.Int64Counter(
		"reduce.extract.failures.total",
		metric.WithDescription("Total number of absorbed per-batch extraction failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	m.itemsSkippedTotal, err = meter.Int64Counter(
		"reduce.items.skipped.total",
		metric.WithDescription("Total number of oversized items dropped by the skip strategy"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	m.runDuration, err = meter.Float64Histogram(
		"reduce.run.duration.seconds",
		metric.WithDescription("Duration of processing runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	m.recursionLevels, err = meter.Int64Histogram(
		"reduce.run.levels",
		metric.WithDescription("Recursion levels used per run"),
		metric.WithUnit("{level}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 5, 8),
	)
	if err != nil {
		return nil, err
	}

	m.batchChars, err = meter.Int64Histogram(
		"reduce.batch.chars",
		metric.WithDescription("Accumulated character count per batch"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1000, 4000, 8000, 16000, 32000, 64000, 128000),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordRun records a completed run.
func (m *Metrics) RecordRun(ctx context.Context, status Status, levels int, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("status", string(status)),
	)
	m.runsTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
	m.recursionLevels.Record(ctx, int64(levels), attrs)
}

// RecordBatch records one extracted batch.
func (m *Metrics) RecordBatch(ctx context.Context, level, chars int) {
	if m == nil || !m.initialized {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Int("level", level),
	)
	m.batchesTotal.Add(ctx, 1, attrs)
	m.batchChars.Record(ctx, int64(chars), attrs)
}

// RecordExtractFailure records an absorbed per-batch failure.
func (m *Metrics) RecordExtractFailure(ctx context.Context, level int) {
	if m == nil || !m.initialized {
		return
	}
	m.extractFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("level", level),
	))
}

// RecordItemsSkipped records oversized items dropped by the skip strategy.
func (m *Metrics) RecordItemsSkipped(ctx context.Context, n int) {
	if m == nil || !m.initialized || n == 0 {
		return
	}
	m.itemsSkippedTotal.Add(ctx, int64(n))
}

// Tracer returns a tracer for the engine.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a new span carrying run attributes.
func StartSpan(ctx context.Context, name, runID string, items int, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	allOpts := append([]trace.SpanStartOption{trace.WithAttributes(runAttributes(runID, items)...)}, opts...)
	return Tracer().Start(ctx, name, allOpts...)
}
