package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Extractive(t *testing.T) {
	ex, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, ex)

	res, err := ex.Extract(context.Background(), "A sentence long enough to survive splitting.", "q", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
}

func TestNew_Noop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderNoop
	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Extract(context.Background(), "unchanged", "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", res.Content)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "telepathy"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.APIKey = ""
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_OpenAIWithKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.APIKey = "test-key"
	ex, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, ex)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"default is valid", func(c *Config) {}, nil},
		{"bad ratio", func(c *Config) { c.TargetRatio = 1 }, ErrInvalidTargetRatio},
		{"bad provider", func(c *Config) { c.Provider = "x" }, ErrUnknownProvider},
		{"openai without key", func(c *Config) { c.Provider = ProviderOpenAI }, ErrMissingAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RequestsPerSecond = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Confidence = 1.5
	assert.Error(t, cfg.Validate())
}

func TestWithRateLimit_Throttles(t *testing.T) {
	// 100 rps with burst 1 forces roughly 10ms between calls.
	ex := WithRateLimit(NoopExtractor{}, 100, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := ex.Extract(context.Background(), "c", "q", nil)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestWithRateLimit_DisabledPassthrough(t *testing.T) {
	inner := NoopExtractor{}
	assert.Equal(t, inner, WithRateLimit(inner, 0, 1))
}
