package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

const extractionPromptTemplate = `You are extracting information relevant to a question from a set of numbered context pieces.

Question: %s

Context:
%s

Reply with only the information relevant to the question, condensed into a short passage. If nothing is relevant, reply with an empty line.`

// LLMExtractor answers the query against batch content using an
// OpenAI-compatible chat model via langchaingo.
type LLMExtractor struct {
	llm        llms.Model
	maxTokens  int
	confidence float64
}

// NewLLMExtractor builds an extractor backed by cfg's model and endpoint.
func NewLLMExtractor(cfg Config) (*LLMExtractor, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultConfig().MaxTokens
	}
	confidence := cfg.Confidence
	if confidence <= 0 {
		confidence = DefaultConfig().Confidence
	}

	return &LLMExtractor{llm: llm, maxTokens: maxTokens, confidence: confidence}, nil
}

// Extract implements reduce.Extractor.
func (e *LLMExtractor) Extract(ctx context.Context, content, query string, meta map[string]any) (reduce.ExtractionResult, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate, query, content)

	answer, err := llms.GenerateFromSinglePrompt(ctx, e.llm, prompt,
		llms.WithMaxTokens(e.maxTokens),
		llms.WithTemperature(0.3),
	)
	if err != nil {
		return reduce.ExtractionResult{}, classifyLLMError(err)
	}

	return reduce.ExtractionResult{
		Content:    strings.TrimSpace(answer),
		Confidence: e.confidence,
	}, nil
}

// transientMarkers identify rate-limit, server-side, and network failures
// in backend error strings.
var transientMarkers = []string{
	"429",
	"rate limit",
	"status code: 5",
	"timeout",
	"connection",
}

// classifyLLMError wraps backend failures, marking transient ones
// retryable so the retry decorator can act on them.
func classifyLLMError(err error) error {
	wrapped := fmt.Errorf("llm extraction: %w", err)
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return &RetryableError{Err: wrapped}
		}
	}
	return wrapped
}

var _ reduce.Extractor = (*LLMExtractor)(nil)
