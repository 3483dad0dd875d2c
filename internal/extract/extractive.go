package extract

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// ExtractiveSummarizer condenses batch content by scoring sentences and
// keeping the highest-scoring ones, in original order, until the target
// length is reached. Sentences that mention query terms score higher.
type ExtractiveSummarizer struct {
	targetRatio float64
	confidence  float64
}

// NewExtractiveSummarizer returns a summarizer using cfg.TargetRatio and
// cfg.Confidence.
func NewExtractiveSummarizer(cfg Config) *ExtractiveSummarizer {
	ratio := cfg.TargetRatio
	if ratio <= 1 {
		ratio = DefaultConfig().TargetRatio
	}
	confidence := cfg.Confidence
	if confidence <= 0 {
		confidence = DefaultConfig().Confidence
	}
	return &ExtractiveSummarizer{targetRatio: ratio, confidence: confidence}
}

// Extract implements reduce.Extractor.
func (s *ExtractiveSummarizer) Extract(ctx context.Context, content, query string, meta map[string]any) (reduce.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return reduce.ExtractionResult{}, err
	}

	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return reduce.ExtractionResult{Content: content, Confidence: 1.0}, nil
	}

	scores := s.scoreSentences(sentences, query)
	target := int(float64(len(content)) / s.targetRatio)
	selected := selectSentences(sentences, scores, target)

	summary := strings.Join(selected, " ")
	if summary == "" {
		summary = content
	}

	confidence := s.confidence
	if len(summary) >= len(content) {
		confidence = 1.0
	}

	return reduce.ExtractionResult{Content: summary, Confidence: confidence}, nil
}

// splitSentences breaks text at terminal punctuation. Fragments shorter
// than ten characters are folded into the following sentence to avoid
// abbreviation splits.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(current.String())
			if len(sentence) > 10 {
				sentences = append(sentences, sentence)
				current.Reset()
			}
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func (s *ExtractiveSummarizer) scoreSentences(sentences []string, query string) []float64 {
	scores := make([]float64, len(sentences))
	freq := wordFrequency(sentences)
	queryTerms := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if w = trimWord(w); len(w) > 2 {
			queryTerms[w] = true
		}
	}

	for i, sentence := range sentences {
		score := 0.0
		words := strings.Fields(sentence)

		// Earlier sentences carry more weight, but never enough to
		// outrank a sentence that matches the query.
		score += (1.0 / (float64(i) + 1.0)) * 0.15

		// Medium-length sentences are preferred, peaking at 20 words.
		lengthScore := math.Min(float64(len(words))/20.0, 1.0)
		if len(words) > 20 {
			lengthScore = math.Max(1.0-(float64(len(words))-20.0)/50.0, 0.1)
		}
		score += lengthScore * 0.3

		// Inverse word frequency rewards distinctive vocabulary.
		freqScore := 0.0
		queryHits := 0
		for _, word := range words {
			word = trimWord(strings.ToLower(word))
			if f, ok := freq[word]; ok && f > 1 {
				freqScore += 1.0 / float64(f)
			}
			if queryTerms[word] {
				queryHits++
			}
		}
		if len(words) > 0 {
			freqScore /= float64(len(words))
		}
		score += freqScore * 0.25

		if queryHits > 0 {
			score += math.Min(float64(queryHits)*0.15, 0.45)
		}

		scores[i] = score
	}
	return scores
}

func wordFrequency(sentences []string) map[string]int {
	freq := make(map[string]int)
	for _, sentence := range sentences {
		for _, word := range strings.Fields(sentence) {
			word = trimWord(strings.ToLower(word))
			if len(word) > 2 {
				freq[word]++
			}
		}
	}
	return freq
}

func trimWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// selectSentences greedily takes the best-scoring sentences that fit the
// target length, then restores original order. At least one sentence is
// always returned.
func selectSentences(sentences []string, scores []float64, target int) []string {
	type ranked struct {
		index int
		score float64
	}
	order := make([]ranked, len(sentences))
	for i, sc := range scores {
		order[i] = ranked{index: i, score: sc}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	chosen := make(map[int]bool)
	length := 0
	for _, r := range order {
		n := len(sentences[r.index])
		if length+n <= target {
			chosen[r.index] = true
			length += n + 1
		}
	}
	if len(chosen) == 0 && len(sentences) > 0 {
		chosen[order[0].index] = true
	}

	var selected []string
	for i, sentence := range sentences {
		if chosen[i] {
			selected = append(selected, sentence)
		}
	}
	return selected
}

var _ reduce.Extractor = (*ExtractiveSummarizer)(nil)
