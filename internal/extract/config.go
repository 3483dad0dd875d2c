package extract

import (
	"errors"
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderExtractive = "extractive"
	ProviderOpenAI     = "openai"
	ProviderNoop       = "noop"
)

var (
	// ErrUnknownProvider indicates Config.Provider names no known extractor.
	ErrUnknownProvider = errors.New("unknown extraction provider")

	// ErrMissingAPIKey indicates an LLM provider was selected without credentials.
	ErrMissingAPIKey = errors.New("API key required")

	// ErrInvalidTargetRatio indicates TargetRatio is not greater than 1.
	ErrInvalidTargetRatio = errors.New("target ratio must be greater than 1")
)

// Config selects and tunes an extractor.
type Config struct {
	// Provider selects the extractor implementation.
	Provider string `koanf:"provider" json:"provider"`

	// Model is the model identifier for LLM providers.
	Model string `koanf:"model" json:"model"`

	// APIKey authenticates LLM requests. Never logged.
	APIKey string `koanf:"api_key" json:"-"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `koanf:"base_url" json:"base_url"`

	// MaxTokens caps the completion length for LLM providers.
	MaxTokens int `koanf:"max_tokens" json:"max_tokens"`

	// TargetRatio is the compression factor for the extractive
	// summarizer. A ratio of 4 keeps roughly a quarter of the input.
	TargetRatio float64 `koanf:"target_ratio" json:"target_ratio"`

	// Confidence is reported by extractors that cannot self-assess.
	Confidence float64 `koanf:"confidence" json:"confidence"`

	// MaxAttempts bounds retries on transient failures. 1 disables retry.
	MaxAttempts int `koanf:"max_attempts" json:"max_attempts"`

	// RequestsPerSecond throttles extraction calls. 0 disables throttling.
	RequestsPerSecond float64 `koanf:"requests_per_second" json:"requests_per_second"`

	// Burst is the rate limiter burst size.
	Burst int `koanf:"burst" json:"burst"`
}

// DefaultConfig returns a config that works offline.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderExtractive,
		Model:       "gpt-4o-mini",
		MaxTokens:   1024,
		TargetRatio: 4.0,
		Confidence:  0.7,
		MaxAttempts: 3,
		Burst:       1,
	}
}

// Validate checks the config for inconsistencies.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderExtractive, ProviderOpenAI, ProviderNoop:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Provider == ProviderOpenAI && c.APIKey == "" {
		return fmt.Errorf("%w for provider %q", ErrMissingAPIKey, c.Provider)
	}
	if c.Provider == ProviderExtractive && c.TargetRatio <= 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidTargetRatio, c.TargetRatio)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0, 1], got %v", c.Confidence)
	}
	return nil
}
