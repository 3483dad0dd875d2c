package reduce

import (
	"context"
	"fmt"
	"time"
)

// levelOutcome is the output of one complete map pass.
type levelOutcome struct {
	results        []ExtractionResult
	batchCount     int
	needsRecursion bool
	skipped        []int
}

// runLevel executes one map pass: build batches, extract each batch in
// ascending batch order, tag results, and decide whether another pass is
// needed. Batches share no state, but the pass stays strictly sequential so
// source index and result ordering is reproducible.
func (p *Processor) runLevel(ctx context.Context, items []Item, query string, level int, st *runState) (levelOutcome, error) {
	batches, skipped, err := BuildBatches(items, p.formatter, p.cfg)
	if err != nil {
		return levelOutcome{}, err
	}
	for _, idx := range skipped {
		p.logger.ItemSkipped(ctx, st.runID, level, idx)
	}
	p.metrics.RecordItemsSkipped(ctx, len(skipped))

	p.emit(ctx, st, ProgressInfo{
		Stage:          StageBatching,
		RecursionLevel: level,
		BatchCount:     len(batches),
		TotalItems:     len(items),
		Message:        fmt.Sprintf("built %d batches from %d items", len(batches), len(items)),
	})
	p.logger.LevelStarted(ctx, st.runID, level, len(items), len(batches))

	results := make([]ExtractionResult, 0, len(batches))
	processed := 0
	for i := range batches {
		b := &batches[i]
		if err := ctx.Err(); err != nil {
			return levelOutcome{}, err
		}

		p.emit(ctx, st, ProgressInfo{
			Stage:          StageExtracting,
			RecursionLevel: level,
			BatchIndex:     b.Index,
			BatchCount:     len(batches),
			ItemsProcessed: processed,
			TotalItems:     len(items),
			Message:        fmt.Sprintf("extracting batch %d/%d", b.Index+1, len(batches)),
		})

		content := b.Content(p.cfg.Separator)
		meta := map[string]any{
			"batch_index":     b.Index,
			"recursion_level": level,
			"item_count":      len(b.Items),
			"batch_chars":     b.TotalChars,
		}

		start := time.Now()
		res, extractErr := p.safeExtract(ctx, content, query, meta)
		st.extractCalls++
		p.metrics.RecordBatch(ctx, level, b.TotalChars)

		if extractErr != nil {
			if !p.cfg.ContinueOnError {
				return levelOutcome{}, fmt.Errorf("batch %d at level %d: %w: %w", b.Index, level, ErrExtraction, extractErr)
			}
			st.extractFailures++
			p.logger.ExtractFailed(ctx, st.runID, level, b.Index, extractErr)
			p.metrics.RecordExtractFailure(ctx, level)
			res = ExtractionResult{
				IsError:      true,
				ErrorMessage: extractErr.Error(),
				Metadata:     map[string]any{"error": extractErr.Error()},
			}
		}

		res.BatchIndex = b.Index
		res.RecursionLevel = level
		res.SourceIndices = b.SourceIndices
		res.Confidence = clampConfidence(res.Confidence)
		results = append(results, res)

		processed += len(b.Items)
		p.logger.BatchExtracted(ctx, st.runID, level, b.Index, b.TotalChars, res.Confidence, time.Since(start))

		p.emit(ctx, st, ProgressInfo{
			Stage:          StageExtracting,
			RecursionLevel: level,
			BatchIndex:     b.Index,
			BatchCount:     len(batches),
			ItemsProcessed: processed,
			TotalItems:     len(items),
			Message:        fmt.Sprintf("extracted batch %d/%d", b.Index+1, len(batches)),
		})
	}

	return levelOutcome{
		results:        results,
		batchCount:     len(batches),
		needsRecursion: p.needsRecursion(results),
		skipped:        skipped,
	}, nil
}

// safeExtract invokes the extractor and converts panics into errors so a
// misbehaving collaborator degrades like any other extraction failure.
func (p *Processor) safeExtract(ctx context.Context, content, query string, meta map[string]any) (res ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = ExtractionResult{}
			err = fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return p.extractor.Extract(ctx, content, query, meta)
}

// needsRecursion reports whether the level's concatenated results still
// exceed the budget.
func (p *Processor) needsRecursion(results []ExtractionResult) bool {
	total := 0
	joined := 0
	for _, r := range results {
		if r.Content == "" {
			continue
		}
		if joined > 0 {
			total += len(p.cfg.Separator)
		}
		total += len(r.Content)
		joined++
	}
	return total > p.cfg.MaxContextChars
}

// clampConfidence pins a confidence value into [0, 1].
func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
