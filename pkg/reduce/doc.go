// Package reduce implements a hierarchical map-reduce engine for condensing
// an ordered collection of text items into a single consolidated result when
// the condensing step itself can only accept input up to a fixed character
// budget.
//
// The engine partitions items into budget-respecting batches, invokes a
// pluggable Extractor per batch, and recursively re-consolidates the
// extracted results until they fit the budget or a depth/size floor is
// reached. It performs no network I/O and builds no prompts of its own;
// extraction and per-item formatting are caller-supplied capabilities.
//
// # Processing model
//
// A run starts at level 0 over the caller's items. Each level builds batches
// with a single greedy left-to-right pass, extracts every batch in ascending
// batch order, and then checks whether the concatenated results still exceed
// the budget. If they do, the results are promoted to opaque items for the
// next level. Processing stops when the results fit (StatusCompleted), when
// the recursion depth ceiling is reached (StatusTruncated), or when fewer
// results remain than MinItemsForRecursion (StatusCompleted).
//
// Per-batch extraction failures never abort a run under the default
// ContinueOnError mode: a failed batch is recorded as a zero-confidence
// error result and processing continues. Callers inspect
// ProcessingResult.Status and RunStats to detect degraded runs.
//
// # Example
//
//	cfg := reduce.DefaultConfig()
//	cfg.MaxContextChars = 8000
//
//	p, err := reduce.New(cfg, myExtractor)
//	if err != nil {
//	    // handle error
//	}
//
//	items := reduce.FromStrings(passages...)
//	result, err := p.Process(ctx, items, "key findings about the outage")
//	if err != nil {
//	    // configuration or cancellation problem; data problems never error
//	}
//	fmt.Println(result.FinalResult.Content)
//
// A Processor holds no per-run mutable state and is safe for concurrent
// Process calls.
package reduce
