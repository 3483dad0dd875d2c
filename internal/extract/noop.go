package extract

import (
	"context"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// NoopExtractor returns batch content unchanged with full confidence.
// Useful for dry runs and for exercising the batching layer in isolation.
type NoopExtractor struct{}

// Extract implements reduce.Extractor.
func (NoopExtractor) Extract(ctx context.Context, content, query string, meta map[string]any) (reduce.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return reduce.ExtractionResult{}, err
	}
	return reduce.ExtractionResult{Content: content, Confidence: 1.0}, nil
}

var _ reduce.Extractor = NoopExtractor{}
