package extract

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// rateLimitedExtractor throttles extraction calls.
type rateLimitedExtractor struct {
	inner   reduce.Extractor
	limiter *rate.Limiter
}

// WithRateLimit wraps inner so that extractions respect rps requests per
// second with the given burst. A non-positive rps returns inner unchanged.
func WithRateLimit(inner reduce.Extractor, rps float64, burst int) reduce.Extractor {
	if rps <= 0 {
		return inner
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedExtractor{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimitedExtractor) Extract(ctx context.Context, content, query string, meta map[string]any) (reduce.ExtractionResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return reduce.ExtractionResult{}, fmt.Errorf("rate limiter: %w", err)
	}
	return r.inner.Extract(ctx, content, query, meta)
}
