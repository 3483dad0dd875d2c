package reduce

import (
	"strings"
	"time"
)

// Status is the terminal state of a processing run.
type Status string

const (
	// StatusCompleted means the consolidated result fits the budget, or
	// recursion was abandoned below the MinItemsForRecursion floor.
	StatusCompleted Status = "completed"
	// StatusTruncated means the depth ceiling was reached with a result
	// that still exceeds the budget. The result is usable, just oversized.
	StatusTruncated Status = "truncated"
	// StatusFailed is reserved for forward compatibility; the engine
	// absorbs per-batch failures and never produces it.
	StatusFailed Status = "failed"
	// StatusPartial is reserved for forward compatibility.
	StatusPartial Status = "partial"
)

// Item is one unit of content entering a processing level. The set of
// implementations is closed: LeafItem for caller-supplied content and
// ConsolidatedItem for extraction results promoted into deeper levels.
// Formatters switch exhaustively on the two variants.
type Item interface {
	isItem()
}

// LeafItem is an original caller-supplied unit of content.
type LeafItem struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (LeafItem) isItem() {}

// ConsolidatedItem is an extraction result re-entering the loop as an
// opaque item at the next recursion level. It carries the metadata and
// original source indices of the result it was promoted from.
type ConsolidatedItem struct {
	Content       string         `json:"content"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	SourceIndices []int          `json:"source_indices,omitempty"`
}

func (ConsolidatedItem) isItem() {}

// FromStrings wraps plain strings as leaf items.
func FromStrings(contents ...string) []Item {
	items := make([]Item, len(contents))
	for i, c := range contents {
		items[i] = LeafItem{Content: c}
	}
	return items
}

// Batch is a contiguous, budget-respecting run of formatted items. Batches
// are ephemeral: built per level, discarded after extraction.
type Batch struct {
	// Items in input order.
	Items []Item
	// Pieces holds the formatted form of each item, using batch-relative
	// positions.
	Pieces []string
	// SourceIndices are the original item positions covered by this batch.
	SourceIndices []int
	// TotalChars is the sum of piece lengths plus included separators.
	TotalChars int
	// Index is the position of this batch within its level.
	Index int
}

// Content joins the formatted pieces with the separator.
func (b *Batch) Content(separator string) string {
	return strings.Join(b.Pieces, separator)
}

// ExtractionResult is the output of one extraction call, or of a merge.
type ExtractionResult struct {
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	SourceIndices  []int          `json:"source_indices,omitempty"`
	Confidence     float64        `json:"confidence"`
	BatchIndex     int            `json:"batch_index"`
	RecursionLevel int            `json:"recursion_level"`
	IsError        bool           `json:"is_error,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
}

// ProcessingResult is the terminal artifact of a run. It is owned
// exclusively by the caller after Process returns.
type ProcessingResult struct {
	FinalResult         ExtractionResult     `json:"final_result"`
	Status              Status               `json:"status"`
	TotalItemsProcessed int                  `json:"total_items_processed"`
	BatchesCreated      int                  `json:"batches_created"`
	RecursionLevelsUsed int                  `json:"recursion_levels_used"`
	LevelResults        [][]ExtractionResult `json:"level_results,omitempty"`
	Stats               RunStats             `json:"stats"`
}

// RunStats carries per-run accounting. It lives on the stack of a single
// Process call, never on the Processor.
type RunStats struct {
	RunID           string        `json:"run_id"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	ExtractCalls    int           `json:"extract_calls"`
	ExtractFailures int           `json:"extract_failures"`
	SkippedItems    []int         `json:"skipped_items,omitempty"`
	InputChars      int           `json:"input_chars"`
	OutputChars     int           `json:"output_chars"`
}

// Stage identifies a point in the run lifecycle for progress reporting.
type Stage string

const (
	StageStarting   Stage = "starting"
	StageBatching   Stage = "batching"
	StageExtracting Stage = "extracting"
	StageRecursing  Stage = "recursing"
	StageComplete   Stage = "complete"
)

// ProgressInfo is a transient lifecycle event handed to the caller's
// progress sink.
type ProgressInfo struct {
	Stage          Stage  `json:"stage"`
	RecursionLevel int    `json:"recursion_level"`
	BatchIndex     int    `json:"batch_index"`
	BatchCount     int    `json:"batch_count"`
	ItemsProcessed int    `json:"items_processed"`
	TotalItems     int    `json:"total_items"`
	Message        string `json:"message,omitempty"`
}
