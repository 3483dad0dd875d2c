package extract

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// RetryableError marks a transient failure worth retrying, such as a rate
// limit response or a server error.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns the wait before attempt n (0-indexed) with jitter,
// capped at 30 seconds.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// retryingExtractor retries transient failures with exponential backoff.
type retryingExtractor struct {
	inner       reduce.Extractor
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

// WithRetry wraps inner so that retryable errors are attempted up to
// maxAttempts times. Non-retryable errors return immediately.
func WithRetry(inner reduce.Extractor, maxAttempts int) reduce.Extractor {
	if maxAttempts <= 1 {
		return inner
	}
	return &retryingExtractor{inner: inner, maxAttempts: maxAttempts, backoff: Backoff}
}

func (r *retryingExtractor) Extract(ctx context.Context, content, query string, meta map[string]any) (reduce.ExtractionResult, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.backoff(attempt - 1)):
			case <-ctx.Done():
				return reduce.ExtractionResult{}, ctx.Err()
			}
		}

		res, err := r.inner.Extract(ctx, content, query, meta)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return reduce.ExtractionResult{}, err
		}
	}
	return reduce.ExtractionResult{}, fmt.Errorf("max attempts exceeded: %w", lastErr)
}
