package reduce

import "fmt"

// OversizedStrategy controls what happens to an item whose formatted length
// alone exceeds the context budget.
type OversizedStrategy string

const (
	// OversizedSplit cuts the item's content into budget-sized pieces that
	// share the original source index.
	OversizedSplit OversizedStrategy = "split"
	// OversizedTruncate clips the item's content so the formatted item fits.
	OversizedTruncate OversizedStrategy = "truncate"
	// OversizedSkip drops the item and records its index in run stats.
	OversizedSkip OversizedStrategy = "skip"
	// OversizedFail aborts the run before any extraction happens.
	OversizedFail OversizedStrategy = "fail"
)

// Valid reports whether the strategy is a known value.
func (s OversizedStrategy) Valid() bool {
	switch s {
	case OversizedSplit, OversizedTruncate, OversizedSkip, OversizedFail:
		return true
	}
	return false
}

// ConsolidationStrategy controls how multiple extraction results are merged
// into one.
type ConsolidationStrategy string

const (
	// ConsolidateConcatenate joins non-empty contents in input order.
	ConsolidateConcatenate ConsolidationStrategy = "concatenate"
	// ConsolidateWeighted joins contents in descending confidence order,
	// ties broken by input order.
	ConsolidateWeighted ConsolidationStrategy = "weighted"
	// ConsolidateDeduplicate drops results whose content exactly matches an
	// earlier result before joining.
	ConsolidateDeduplicate ConsolidationStrategy = "deduplicate"
)

// Valid reports whether the strategy is a known value.
func (s ConsolidationStrategy) Valid() bool {
	switch s {
	case ConsolidateConcatenate, ConsolidateWeighted, ConsolidateDeduplicate:
		return true
	}
	return false
}

// Config holds the immutable settings for a processing run. Validate it
// before use; a Processor rejects invalid configs at construction.
type Config struct {
	// MaxContextChars is the per-batch character budget.
	MaxContextChars int `koanf:"max_context_chars" json:"max_context_chars"`
	// OverlapChars is reserved for continuous-text overlap. It is carried
	// through validation but unused for discrete items.
	OverlapChars int `koanf:"overlap_chars" json:"overlap_chars"`
	// MaxRecursionDepth is the hard ceiling on map-reduce passes beyond
	// level 0.
	MaxRecursionDepth int `koanf:"max_recursion_depth" json:"max_recursion_depth"`
	// MinItemsForRecursion is the floor below which recursion is abandoned.
	MinItemsForRecursion int `koanf:"min_items_for_recursion" json:"min_items_for_recursion"`
	// Separator joins formatted items within a batch and result contents
	// during merge.
	Separator string `koanf:"separator" json:"separator"`
	// PreserveMetadata controls whether merges retain per-source metadata
	// snapshots.
	PreserveMetadata bool `koanf:"preserve_metadata" json:"preserve_metadata"`
	// Oversized selects the handling of items that exceed the budget on
	// their own.
	Oversized OversizedStrategy `koanf:"oversized_item_strategy" json:"oversized_item_strategy"`
	// Consolidation selects the merge strategy.
	Consolidation ConsolidationStrategy `koanf:"consolidation_strategy" json:"consolidation_strategy"`
	// ContinueOnError keeps a level running past individual batch
	// failures. When false, the first extraction failure propagates to the
	// caller of Process.
	ContinueOnError bool `koanf:"continue_on_error" json:"continue_on_error"`
	// MinConfidence filters results below this confidence out of
	// multi-element merges. Zero disables the filter.
	MinConfidence float64 `koanf:"min_confidence_threshold" json:"min_confidence_threshold"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxContextChars:      16000,
		OverlapChars:         0,
		MaxRecursionDepth:    3,
		MinItemsForRecursion: 2,
		Separator:            "\n\n---\n\n",
		PreserveMetadata:     true,
		Oversized:            OversizedFail,
		Consolidation:        ConsolidateConcatenate,
		ContinueOnError:      true,
		MinConfidence:        0,
	}
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.MaxContextChars <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidContextBudget, c.MaxContextChars)
	}
	if c.OverlapChars < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeOverlap, c.OverlapChars)
	}
	if c.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeDepth, c.MaxRecursionDepth)
	}
	if c.MinItemsForRecursion < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidMinItems, c.MinItemsForRecursion)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w, got %g", ErrInvalidConfidence, c.MinConfidence)
	}
	if !c.Oversized.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOversized, c.Oversized)
	}
	if !c.Consolidation.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownConsolidation, c.Consolidation)
	}
	return nil
}
