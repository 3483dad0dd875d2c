package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, OversizedFail, cfg.Oversized)
	assert.Equal(t, ConsolidateConcatenate, cfg.Consolidation)
	assert.True(t, cfg.ContinueOnError)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero budget", func(c *Config) { c.MaxContextChars = 0 }, ErrInvalidContextBudget},
		{"negative budget", func(c *Config) { c.MaxContextChars = -1 }, ErrInvalidContextBudget},
		{"negative overlap", func(c *Config) { c.OverlapChars = -1 }, ErrNegativeOverlap},
		{"negative depth", func(c *Config) { c.MaxRecursionDepth = -1 }, ErrNegativeDepth},
		{"zero min items", func(c *Config) { c.MinItemsForRecursion = 0 }, ErrInvalidMinItems},
		{"confidence below range", func(c *Config) { c.MinConfidence = -0.1 }, ErrInvalidConfidence},
		{"confidence above range", func(c *Config) { c.MinConfidence = 1.1 }, ErrInvalidConfidence},
		{"unknown oversized strategy", func(c *Config) { c.Oversized = "explode" }, ErrUnknownOversized},
		{"unknown consolidation strategy", func(c *Config) { c.Consolidation = "vote" }, ErrUnknownConsolidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStrategyValid(t *testing.T) {
	for _, s := range []OversizedStrategy{OversizedSplit, OversizedTruncate, OversizedSkip, OversizedFail} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OversizedStrategy("").Valid())

	for _, s := range []ConsolidationStrategy{ConsolidateConcatenate, ConsolidateWeighted, ConsolidateDeduplicate} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ConsolidationStrategy("").Valid())
}
