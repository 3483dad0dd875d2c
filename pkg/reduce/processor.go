package reduce

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Processor drives hierarchical map-reduce runs. It holds only immutable
// collaborators; all per-run state lives on the stack of a Process call, so
// one Processor can serve concurrent runs.
type Processor struct {
	cfg        Config
	formatter  Formatter
	extractor  Extractor
	progress   ProgressSink
	logger     *Logger
	metrics    *Metrics
	keepLevels bool
}

// Option configures a Processor at construction.
type Option func(*Processor)

// WithFormatter replaces the DefaultFormatter.
func WithFormatter(f Formatter) Option {
	return func(p *Processor) {
		if f != nil {
			p.formatter = f
		}
	}
}

// WithProgress registers a sink for lifecycle events.
func WithProgress(sink ProgressSink) Option {
	return func(p *Processor) { p.progress = sink }
}

// WithLogger attaches structured logging. A nil logger is a no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) { p.logger = NewLogger(logger) }
}

// WithMetrics attaches OpenTelemetry metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithLevelResults keeps every level's intermediate results on the
// ProcessingResult. Off by default; deep runs over large inputs can hold a
// lot of text.
func WithLevelResults() Option {
	return func(p *Processor) { p.keepLevels = true }
}

// New creates a Processor. The config is validated eagerly; an invalid
// config is the one error class that always propagates to the caller.
func New(cfg Config, extractor Extractor, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	p := &Processor{
		cfg:       cfg,
		formatter: DefaultFormatter{},
		extractor: extractor,
		logger:    NewLogger(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config {
	return p.cfg
}

// runState is the stack-local accumulator for one Process call.
type runState struct {
	runID           string
	startedAt       time.Time
	extractCalls    int
	extractFailures int
	skipped         []int
	levels          [][]ExtractionResult
}

// Process condenses items into a single consolidated result.
//
// It returns an error only for context cancellation, an oversized item
// under OversizedFail, or an extraction failure when ContinueOnError is
// off. Data-related degradation surfaces through ProcessingResult.Status
// and RunStats instead.
func (p *Processor) Process(ctx context.Context, items []Item, query string) (*ProcessingResult, error) {
	st := &runState{
		runID:     uuid.NewString(),
		startedAt: time.Now(),
	}

	ctx, span := StartSpan(ctx, "reduce.Process", st.runID, len(items))
	defer span.End()

	inputChars := 0
	for _, it := range items {
		inputChars += len(itemContent(it))
	}
	p.logger.RunStarted(ctx, st.runID, len(items), inputChars, p.cfg)

	p.emit(ctx, st, ProgressInfo{
		Stage:      StageStarting,
		TotalItems: len(items),
		Message:    "starting run",
	})

	if len(items) == 0 {
		return p.finish(ctx, st, items, ExtractionResult{}, StatusCompleted, 0, 0, inputChars), nil
	}

	current := items
	level := 0
	batchesCreated := 0
	var results []ExtractionResult
	var status Status

	for {
		out, err := p.runLevel(ctx, current, query, level, st)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.logger.RunFailed(ctx, st.runID, level, err)
			return nil, err
		}
		batchesCreated += out.batchCount
		st.skipped = append(st.skipped, out.skipped...)
		if p.keepLevels {
			st.levels = append(st.levels, out.results)
		}
		results = out.results

		if !out.needsRecursion {
			status = StatusCompleted
			break
		}
		if level >= p.cfg.MaxRecursionDepth {
			// An oversized but usable result beats failing the caller.
			status = StatusTruncated
			break
		}
		if len(results) < p.cfg.MinItemsForRecursion {
			// A handful of stubborn results cannot be reduced further.
			status = StatusCompleted
			break
		}

		p.emit(ctx, st, ProgressInfo{
			Stage:          StageRecursing,
			RecursionLevel: level + 1,
			TotalItems:     len(results),
			Message:        "promoting results to next level",
		})
		current = promote(results)
		level++
	}

	final := Merge(results, level, p.cfg)
	return p.finish(ctx, st, items, final, status, level, batchesCreated, inputChars), nil
}

// promote turns a level's results into opaque items for the next level.
func promote(results []ExtractionResult) []Item {
	items := make([]Item, len(results))
	for i, r := range results {
		items[i] = ConsolidatedItem{
			Content:       r.Content,
			Metadata:      r.Metadata,
			SourceIndices: r.SourceIndices,
		}
	}
	return items
}

// finish assembles the ProcessingResult and emits terminal observability.
func (p *Processor) finish(ctx context.Context, st *runState, items []Item, final ExtractionResult, status Status, levels, batches, inputChars int) *ProcessingResult {
	duration := time.Since(st.startedAt)

	p.emit(ctx, st, ProgressInfo{
		Stage:          StageComplete,
		RecursionLevel: levels,
		ItemsProcessed: len(items),
		TotalItems:     len(items),
		Message:        string(status),
	})
	p.logger.RunCompleted(ctx, st.runID, status, levels, batches, st.extractFailures, duration)
	p.metrics.RecordRun(ctx, status, levels, duration)

	return &ProcessingResult{
		FinalResult:         final,
		Status:              status,
		TotalItemsProcessed: len(items),
		BatchesCreated:      batches,
		RecursionLevelsUsed: levels,
		LevelResults:        st.levels,
		Stats: RunStats{
			RunID:           st.runID,
			StartedAt:       st.startedAt,
			Duration:        duration,
			ExtractCalls:    st.extractCalls,
			ExtractFailures: st.extractFailures,
			SkippedItems:    st.skipped,
			InputChars:      inputChars,
			OutputChars:     len(final.Content),
		},
	}
}

// emit hands a progress event to the sink, recovering panics so a
// misbehaving callback can never interrupt processing.
func (p *Processor) emit(ctx context.Context, st *runState, info ProgressInfo) {
	if p.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.ProgressPanicked(ctx, st.runID, info.Stage, r)
		}
	}()
	p.progress.OnProgress(info)
}

// Span attribute keys for run-level tracing.
func runAttributes(runID string, items int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("reduce.run_id", runID),
		attribute.Int("reduce.items", items),
	}
}
