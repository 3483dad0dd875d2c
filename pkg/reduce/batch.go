package reduce

import (
	"fmt"
	"unicode/utf8"
)

// boundItem pairs an item with the original source indices it covers.
// Leaf items cover their own position; consolidated items carry the
// positions of everything merged into them at earlier levels.
type boundItem struct {
	item    Item
	indices []int
}

// BuildBatches partitions items into ordered, budget-respecting batches.
//
// The pass is greedy and left-to-right, O(n): it keeps a running character
// count for the batch under construction, formats each item at its
// batch-relative position, and closes the batch when adding the item would
// exceed MaxContextChars. There is no backtracking or lookahead; packing is
// suboptimal but deterministic and stable.
//
// Items whose formatted length alone exceeds the budget are handled by the
// configured OversizedStrategy before the greedy pass. The returned int
// slice holds the original positions dropped by OversizedSkip.
func BuildBatches(items []Item, f Formatter, cfg Config) ([]Batch, []int, error) {
	bound, skipped, err := applyOversized(items, f, cfg)
	if err != nil {
		return nil, nil, err
	}

	var batches []Batch
	var cur Batch

	flush := func() {
		if len(cur.Items) == 0 {
			return
		}
		cur.Index = len(batches)
		batches = append(batches, cur)
		cur = Batch{}
	}

	for _, b := range bound {
		piece := f.FormatItem(b.item, len(cur.Items))
		cost := len(piece)
		if len(cur.Items) > 0 {
			cost += len(cfg.Separator)
		}
		if len(cur.Items) > 0 && cur.TotalChars+cost > cfg.MaxContextChars {
			flush()
			// Position within the new batch is 0, so the marker changes.
			piece = f.FormatItem(b.item, 0)
			cost = len(piece)
		}
		cur.Items = append(cur.Items, b.item)
		cur.Pieces = append(cur.Pieces, piece)
		cur.SourceIndices = append(cur.SourceIndices, b.indices...)
		cur.TotalChars += cost
	}
	flush()

	return batches, skipped, nil
}

// applyOversized resolves items that exceed the budget on their own.
// Detection uses the position-0 formatted length: an item that fits at
// position 0 always fits alone in a batch.
func applyOversized(items []Item, f Formatter, cfg Config) ([]boundItem, []int, error) {
	bound := make([]boundItem, 0, len(items))
	var skipped []int

	for i, item := range items {
		indices := itemSourceIndices(item, i)
		piece := f.FormatItem(item, 0)
		if len(piece) <= cfg.MaxContextChars {
			bound = append(bound, boundItem{item: item, indices: indices})
			continue
		}

		switch cfg.Oversized {
		case OversizedFail:
			return nil, nil, fmt.Errorf("item %d: %w (%d > %d chars)", i, ErrOversizedItem, len(piece), cfg.MaxContextChars)
		case OversizedSkip:
			skipped = append(skipped, indices...)
		case OversizedTruncate:
			clipped, err := resizeContent(item, piece, cfg.MaxContextChars)
			if err != nil {
				return nil, nil, fmt.Errorf("item %d: %w", i, err)
			}
			bound = append(bound, boundItem{item: clipped[0], indices: indices})
		case OversizedSplit:
			parts, err := splitContent(item, piece, cfg.MaxContextChars)
			if err != nil {
				return nil, nil, fmt.Errorf("item %d: %w", i, err)
			}
			for _, p := range parts {
				bound = append(bound, boundItem{item: p, indices: indices})
			}
		}
	}

	return bound, skipped, nil
}

// itemSourceIndices resolves the original positions an item stands for.
func itemSourceIndices(item Item, position int) []int {
	if it, ok := item.(ConsolidatedItem); ok && len(it.SourceIndices) > 0 {
		out := make([]int, len(it.SourceIndices))
		copy(out, it.SourceIndices)
		return out
	}
	return []int{position}
}

// itemContent returns the raw content of either item variant.
func itemContent(item Item) string {
	switch it := item.(type) {
	case LeafItem:
		return it.Content
	case ConsolidatedItem:
		return it.Content
	}
	return ""
}

// withContent returns a copy of the item with its content replaced.
func withContent(item Item, content string) Item {
	switch it := item.(type) {
	case LeafItem:
		it.Content = content
		return it
	case ConsolidatedItem:
		it.Content = content
		return it
	}
	return item
}

// resizeContent truncates the item's content so the formatted item fits the
// budget. The formatting overhead (markers, labels) is assumed to be
// position-independent apart from digit width, which the greedy pass
// already accounts for by reformatting at batch boundaries.
func resizeContent(item Item, formatted string, budget int) ([]Item, error) {
	keep := budget - (len(formatted) - len(itemContent(item)))
	if keep <= 0 {
		return nil, fmt.Errorf("%w: formatting overhead alone exceeds budget", ErrOversizedItem)
	}
	return []Item{withContent(item, clipBytes(itemContent(item), keep))}, nil
}

// splitContent cuts the item's content into pieces that each fit the budget
// once formatted. Every piece keeps the item's variant and metadata.
func splitContent(item Item, formatted string, budget int) ([]Item, error) {
	keep := budget - (len(formatted) - len(itemContent(item)))
	if keep <= 0 {
		return nil, fmt.Errorf("%w: formatting overhead alone exceeds budget", ErrOversizedItem)
	}

	content := itemContent(item)
	var parts []Item
	for len(content) > 0 {
		p := clipBytes(content, keep)
		if p == "" {
			// keep is smaller than the first rune; emit the rune whole so
			// the loop always makes progress.
			_, n := utf8.DecodeRuneInString(content)
			p = content[:n]
		}
		parts = append(parts, withContent(item, p))
		content = content[len(p):]
	}
	return parts, nil
}

// clipBytes returns the longest prefix of s not exceeding max bytes,
// cut on a rune boundary.
func clipBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
