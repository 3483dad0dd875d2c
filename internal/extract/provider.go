package extract

import (
	"fmt"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// New builds the configured extractor and applies the rate limiting and
// retry decorators.
func New(cfg Config) (reduce.Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var extractor reduce.Extractor
	switch cfg.Provider {
	case ProviderExtractive:
		extractor = NewExtractiveSummarizer(cfg)
	case ProviderOpenAI:
		llm, err := NewLLMExtractor(cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", cfg.Provider, err)
		}
		extractor = llm
	case ProviderNoop:
		extractor = NoopExtractor{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	extractor = WithRateLimit(extractor, cfg.RequestsPerSecond, cfg.Burst)
	extractor = WithRetry(extractor, cfg.MaxAttempts)
	return extractor, nil
}
