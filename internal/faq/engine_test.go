package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			return nil, errors.New("no stub vector for: " + text)
		}
		out[i] = vec
	}
	return out, nil
}

func testKB() *domain.KnowledgeBase {
	return &domain.KnowledgeBase{Entries: []domain.FAQEntry{
		{
			ID:        "faq_returns",
			Questions: []string{"What is your return policy?", "How do I return an item?"},
			Answer:    "Returns are free within 30 days.",
		},
		{
			ID:        "faq_shipping",
			Questions: []string{"How long does shipping take?"},
			Answer:    "Standard shipping takes 3 to 5 business days.",
		},
	}}
}

func TestBestMatchPicksHighestScoringVariant(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"What is your return policy?":  {1, 0, 0},
		"How do I return an item?":     {0.9, 0.1, 0},
		"How long does shipping take?": {0, 1, 0},
		"can I send this back?":        {0.95, 0.05, 0},
	}}
	engine := NewEngine(context.Background(), embedder, testKB(), zap.NewNop())

	match, ok := engine.BestMatch(context.Background(), "can I send this back?", 0.60)
	require.True(t, ok)
	assert.Equal(t, "faq_returns", match.ID)
	assert.Equal(t, "Returns are free within 30 days.", match.Answer)
	assert.GreaterOrEqual(t, match.Score, 0.60)
}

func TestBestMatchBelowThreshold(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"What is your return policy?":  {1, 0, 0},
		"How do I return an item?":     {0.9, 0.1, 0},
		"How long does shipping take?": {0, 1, 0},
		"my order is broken":           {0, 0, 1},
	}}
	engine := NewEngine(context.Background(), embedder, testKB(), zap.NewNop())

	_, ok := engine.BestMatch(context.Background(), "my order is broken", 0.60)
	assert.False(t, ok)
}

func TestBestMatchFailsSafe(t *testing.T) {
	// No embedder at all.
	engine := NewEngine(context.Background(), nil, testKB(), zap.NewNop())
	_, ok := engine.BestMatch(context.Background(), "anything", 0.60)
	assert.False(t, ok)

	// Embedding outage at query time.
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"What is your return policy?":  {1, 0},
		"How do I return an item?":     {1, 0},
		"How long does shipping take?": {0, 1},
	}}
	engine = NewEngine(context.Background(), embedder, testKB(), zap.NewNop())
	embedder.err = errors.New("offline")
	_, ok = engine.BestMatch(context.Background(), "anything", 0.60)
	assert.False(t, ok)
}

func TestEmptyKnowledgeBaseNeverMatches(t *testing.T) {
	engine := NewEngine(context.Background(), &stubEmbedder{}, &domain.KnowledgeBase{}, zap.NewNop())
	_, ok := engine.BestMatch(context.Background(), "anything", 0.0)
	assert.False(t, ok)
}
