package reduce

import "errors"

// Configuration errors, raised eagerly at validation time. This is the one
// class of error allowed to propagate unrecovered to the caller.
var (
	ErrInvalidContextBudget = errors.New("max_context_chars must be > 0")
	ErrNegativeOverlap      = errors.New("overlap_chars must be >= 0")
	ErrNegativeDepth        = errors.New("max_recursion_depth must be >= 0")
	ErrInvalidMinItems      = errors.New("min_items_for_recursion must be >= 1")
	ErrInvalidConfidence    = errors.New("min_confidence_threshold must be in [0, 1]")
	ErrUnknownOversized     = errors.New("unknown oversized item strategy")
	ErrUnknownConsolidation = errors.New("unknown consolidation strategy")
)

// Run errors.
var (
	ErrNilExtractor  = errors.New("extractor is required")
	ErrOversizedItem = errors.New("formatted item exceeds context budget")
	ErrExtraction    = errors.New("extraction failed")
)
