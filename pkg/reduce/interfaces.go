package reduce

import (
	"context"
	"fmt"
)

// Formatter renders one item into the string form that enters a batch.
// The position is the item's position within the batch under construction,
// not its global index: formatting markers are batch-relative.
type Formatter interface {
	FormatItem(item Item, position int) string
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(item Item, position int) string

// FormatItem calls f.
func (f FormatterFunc) FormatItem(item Item, position int) string {
	return f(item, position)
}

// Extractor condenses one batch's concatenated content. It must be safe to
// invoke repeatedly with identical arguments. The engine never inspects the
// nature of a failure; under ContinueOnError any error is downgraded to a
// zero-confidence error result and the level continues.
type Extractor interface {
	Extract(ctx context.Context, batchContent, query string, batchMetadata map[string]any) (ExtractionResult, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, batchContent, query string, batchMetadata map[string]any) (ExtractionResult, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, batchContent, query string, batchMetadata map[string]any) (ExtractionResult, error) {
	return f(ctx, batchContent, query, batchMetadata)
}

// ProgressSink receives lifecycle events synchronously at stage
// transitions. Panics raised by a sink are recovered and logged, never
// allowed to interrupt processing.
type ProgressSink interface {
	OnProgress(info ProgressInfo)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(info ProgressInfo)

// OnProgress calls f.
func (f ProgressFunc) OnProgress(info ProgressInfo) {
	f(info)
}

// DefaultFormatter numbers items with batch-relative markers. Consolidated
// items get a distinct marker so downstream extraction can tell prior
// summaries from raw content.
type DefaultFormatter struct{}

// FormatItem implements Formatter.
func (DefaultFormatter) FormatItem(item Item, position int) string {
	switch it := item.(type) {
	case LeafItem:
		return fmt.Sprintf("[%d] %s", position+1, it.Content)
	case ConsolidatedItem:
		return fmt.Sprintf("[summary %d] %s", position+1, it.Content)
	default:
		// Item is a closed set; unreachable unless a new variant is added.
		return fmt.Sprintf("[%d] %v", position+1, item)
	}
}

var (
	_ Formatter    = DefaultFormatter{}
	_ Formatter    = FormatterFunc(nil)
	_ Extractor    = ExtractorFunc(nil)
	_ ProgressSink = ProgressFunc(nil)
)
