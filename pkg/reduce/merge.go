package reduce

import (
	"sort"
	"strings"
)

// Merge reduces a list of extraction results to exactly one, at the level
// the merge executes.
//
// Contents of non-empty results are joined with the configured separator.
// Confidence is the arithmetic mean of all positive confidences (0.0 if
// none are positive). Source indices are concatenated in join order, never
// deduplicated. Metadata is populated with a merge count and per-input
// snapshots only when PreserveMetadata is set.
//
// A single-element input is returned unchanged: merge is an identity for
// n=1, applied before any filtering or strategy reordering.
func Merge(results []ExtractionResult, level int, cfg Config) ExtractionResult {
	switch len(results) {
	case 0:
		return ExtractionResult{RecursionLevel: level}
	case 1:
		return results[0]
	}

	merged := filterByConfidence(results, cfg.MinConfidence)
	merged = orderByStrategy(merged, cfg.Consolidation)

	var contents []string
	var indices []int
	var confSum float64
	var confN int
	for _, r := range merged {
		if r.Content != "" {
			contents = append(contents, r.Content)
		}
		indices = append(indices, r.SourceIndices...)
		if r.Confidence > 0 {
			confSum += r.Confidence
			confN++
		}
	}

	var confidence float64
	if confN > 0 {
		confidence = confSum / float64(confN)
	}

	out := ExtractionResult{
		Content:        strings.Join(contents, cfg.Separator),
		SourceIndices:  indices,
		Confidence:     confidence,
		RecursionLevel: level,
	}
	if cfg.PreserveMetadata {
		sources := make([]map[string]any, 0, len(merged))
		for _, r := range merged {
			sources = append(sources, r.Metadata)
		}
		out.Metadata = map[string]any{
			"merge_count": len(merged),
			"sources":     sources,
		}
	}
	return out
}

// filterByConfidence drops results below the threshold. If everything falls
// below it, all results are kept: a best-effort answer beats an empty one.
func filterByConfidence(results []ExtractionResult, threshold float64) []ExtractionResult {
	if threshold <= 0 {
		return results
	}
	kept := make([]ExtractionResult, 0, len(results))
	for _, r := range results {
		if r.Confidence >= threshold {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return results
	}
	return kept
}

// orderByStrategy arranges results for joining according to the
// consolidation strategy.
func orderByStrategy(results []ExtractionResult, strategy ConsolidationStrategy) []ExtractionResult {
	switch strategy {
	case ConsolidateWeighted:
		out := make([]ExtractionResult, len(results))
		copy(out, results)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Confidence > out[j].Confidence
		})
		return out
	case ConsolidateDeduplicate:
		seen := make(map[string]int, len(results))
		var out []ExtractionResult
		for _, r := range results {
			if at, ok := seen[r.Content]; ok && r.Content != "" {
				// Fold the duplicate's sources into the surviving result so
				// traceability is never dropped.
				keep := append([]int(nil), out[at].SourceIndices...)
				out[at].SourceIndices = append(keep, r.SourceIndices...)
				continue
			}
			seen[r.Content] = len(out)
			out = append(out, r)
		}
		return out
	default:
		return results
	}
}
