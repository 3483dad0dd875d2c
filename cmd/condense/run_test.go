package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

func TestReadItems_BlankLineSeparated(t *testing.T) {
	input := "first item line one\nfirst item line two\n\nsecond item\n\n\nthird item\n"
	items, err := readItems(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 3)

	first, ok := items[0].(reduce.LeafItem)
	require.True(t, ok)
	assert.Equal(t, "first item line one\nfirst item line two", first.Content)
	assert.Equal(t, "second item", items[1].(reduce.LeafItem).Content)
	assert.Equal(t, "third item", items[2].(reduce.LeafItem).Content)
}

func TestReadItems_Empty(t *testing.T) {
	items, err := readItems(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReadItems_WhitespaceOnlyBlocksDropped(t *testing.T) {
	items, err := readItems(strings.NewReader("   \n\n  \t \n\nreal content\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "real content", items[0].(reduce.LeafItem).Content)
}

func TestReadItems_NoTrailingNewline(t *testing.T) {
	items, err := readItems(strings.NewReader("only item"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only item", items[0].(reduce.LeafItem).Content)
}

func TestDefaultSettings(t *testing.T) {
	cfg := defaultSettings()
	assert.NoError(t, cfg.Engine.Validate())
	assert.NoError(t, cfg.Extract.Validate())
	assert.NoError(t, cfg.Logging.Validate())
	assert.NoError(t, cfg.Telemetry.Validate())
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := defaultSettings()
	cmd := runCmd
	require.NoError(t, cmd.Flags().Set("budget", "4321"))
	require.NoError(t, cmd.Flags().Set("provider", "noop"))
	require.NoError(t, cmd.Flags().Set("oversized", "skip"))
	t.Cleanup(func() {
		flagBudget = 0
		flagProvider = ""
		flagOversized = ""
	})

	applyFlagOverrides(cmd, &cfg)
	assert.Equal(t, 4321, cfg.Engine.MaxContextChars)
	assert.Equal(t, "noop", cfg.Extract.Provider)
	assert.Equal(t, reduce.OversizedSkip, cfg.Engine.Oversized)
	// Untouched flags keep loaded values.
	assert.Equal(t, reduce.DefaultConfig().Separator, cfg.Engine.Separator)
}
