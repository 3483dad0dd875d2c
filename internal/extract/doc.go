// Package extract provides Extractor implementations for the reduce engine.
//
// Three extractors are available:
//
//   - ExtractiveSummarizer condenses batch content locally using sentence
//     scoring, with no network dependency.
//   - LLMExtractor sends batch content to an OpenAI-compatible chat API via
//     langchaingo and returns the model's answer.
//   - NoopExtractor passes batch content through unchanged.
//
// New builds an extractor from Config and wraps it with rate limiting and
// retry decorators when configured.
package extract
