package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractiveSummarizer_ShortensLongContent(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quarterly report covers revenue growth across all regions. ")
		sb.WriteString("Engineering headcount increased during the period under review. ")
	}
	content := sb.String()

	s := NewExtractiveSummarizer(DefaultConfig())
	res, err := s.Extract(context.Background(), content, "revenue", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Content)
	assert.Less(t, len(res.Content), len(content))
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
}

func TestExtractiveSummarizer_EmptyContent(t *testing.T) {
	s := NewExtractiveSummarizer(DefaultConfig())
	res, err := s.Extract(context.Background(), "", "q", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Content)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestExtractiveSummarizer_QueryTermsBoostSelection(t *testing.T) {
	content := strings.Join([]string{
		"The office relocation plan was finalized in March of this year.",
		"Database migration requires a maintenance window next weekend soon.",
		"Catering for the annual retreat still needs a confirmed vendor now.",
		"The database schema changes were reviewed by the platform team today.",
	}, " ")

	cfg := DefaultConfig()
	cfg.TargetRatio = 2.0
	s := NewExtractiveSummarizer(cfg)

	res, err := s.Extract(context.Background(), content, "database migration schema", nil)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(res.Content), "database")
}

func TestScoreSentences_QueryRelevanceBeatsPosition(t *testing.T) {
	// A later sentence matching the query must outscore a non-matching
	// opening sentence despite the position bonus.
	s := NewExtractiveSummarizer(DefaultConfig())
	sentences := []string{
		"The office relocation plan was finalized in March of this year.",
		"The database schema changes were reviewed by the platform team today.",
	}
	scores := s.scoreSentences(sentences, "database schema changes")
	require.Len(t, scores, 2)
	assert.Greater(t, scores[1], scores[0])
}

func TestNewExtractiveSummarizer_ZeroConfidenceFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Confidence = 0
	s := NewExtractiveSummarizer(cfg)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quarterly report covers revenue growth across all regions. ")
	}

	res, err := s.Extract(context.Background(), sb.String(), "revenue", nil)
	require.NoError(t, err)
	assert.InDelta(t, DefaultConfig().Confidence, res.Confidence, 1e-9)
}

func TestExtractiveSummarizer_PreservesSentenceOrder(t *testing.T) {
	content := "First point about the architecture decisions. Second point about deployment strategy here. Third point about the rollback procedure used."

	cfg := DefaultConfig()
	cfg.TargetRatio = 1.5
	s := NewExtractiveSummarizer(cfg)

	res, err := s.Extract(context.Background(), content, "", nil)
	require.NoError(t, err)

	first := strings.Index(res.Content, "First")
	third := strings.Index(res.Content, "Third")
	if first >= 0 && third >= 0 {
		assert.Less(t, first, third)
	}
}

func TestExtractiveSummarizer_TinyTargetStillReturnsSomething(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetRatio = 1000
	s := NewExtractiveSummarizer(cfg)

	res, err := s.Extract(context.Background(), "One meaningful sentence about the system design. Another sentence follows it here.", "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
}

func TestExtractiveSummarizer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewExtractiveSummarizer(DefaultConfig())
	_, err := s.Extract(ctx, "content", "q", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("This is the first sentence. This is the second one! Short. And a trailing fragment")
	require.NotEmpty(t, sentences)
	assert.Equal(t, "This is the first sentence.", sentences[0])
	assert.Equal(t, "This is the second one!", sentences[1])
}
