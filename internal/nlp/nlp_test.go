package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

// stubEmbedder maps exact texts to fixed vectors.
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

type stubMoodModel struct {
	mood domain.Mood
	prob float64
	err  error
}

func (s *stubMoodModel) PredictProba(context.Context, string) (domain.Mood, float64, error) {
	return s.mood, s.prob, s.err
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float64{1}, []float64{1, 2}))
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 2}))
}

func TestIntentClassifierNearestAnchor(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"anchor order":       {1, 0},
		"anchor reset":       {0, 1},
		"where is my order?": {0.9, 0.1},
		"something else":     {-1, 0},
	}}
	anchors := map[string]string{
		"order_status_inquiry":   "anchor order",
		"account_password_reset": "anchor reset",
	}
	c := NewIntentClassifier(context.Background(), embedder, anchors, 0.25, zap.NewNop())

	label, score := c.Classify(context.Background(), "where is my order?")
	assert.Equal(t, "order_status_inquiry", label)
	assert.Greater(t, score, 0.25)

	label, _ = c.Classify(context.Background(), "something else")
	assert.Equal(t, domain.IntentUnknown, label)
}

func TestIntentClassifierDegraded(t *testing.T) {
	c := NewIntentClassifier(context.Background(), nil, DefaultIntentAnchors, 0.25, zap.NewNop())
	label, score := c.Classify(context.Background(), "anything")
	assert.Equal(t, "error", label)
	assert.Zero(t, score)

	broken := &stubEmbedder{err: errors.New("boom")}
	c = NewIntentClassifier(context.Background(), broken, DefaultIntentAnchors, 0.25, zap.NewNop())
	label, _ = c.Classify(context.Background(), "anything")
	assert.Equal(t, "error", label)
}

func TestMoodModelConfidentPrediction(t *testing.T) {
	c := NewMoodClassifier(context.Background(), &stubMoodModel{mood: domain.MoodConfused, prob: 0.8}, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodConfused, c.Classify(context.Background(), "hmm"))
}

func TestMoodHappyNegationOverride(t *testing.T) {
	c := NewMoodClassifier(context.Background(), &stubMoodModel{mood: domain.MoodHappy, prob: 0.9}, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodAngry, c.Classify(context.Background(), "I am not happy about this delay"))
	assert.Equal(t, domain.MoodHappy, c.Classify(context.Background(), "all good, works fine"))
}

func TestMoodUrgentCalmOverride(t *testing.T) {
	c := NewMoodClassifier(context.Background(), &stubMoodModel{mood: domain.MoodUrgent, prob: 0.9}, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodNeutral, c.Classify(context.Background(), "just checking in, no rush at all"))
}

func TestMoodLowConfidenceFallsToLexicon(t *testing.T) {
	c := NewMoodClassifier(context.Background(), &stubMoodModel{mood: domain.MoodHappy, prob: 0.2}, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodAngry, c.Classify(context.Background(), "this product is garbage"))
	assert.Equal(t, domain.MoodUrgent, c.Classify(context.Background(), "I need this asap"))
	assert.Equal(t, domain.MoodConfused, c.Classify(context.Background(), "I don't understand the invoice"))
}

func TestMoodModelErrorFallsToLexicon(t *testing.T) {
	c := NewMoodClassifier(context.Background(), &stubMoodModel{err: errors.New("offline")}, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodHappy, c.Classify(context.Background(), "thanks, great service"))
}

func TestMoodNegatedHappinessBeatsKeywords(t *testing.T) {
	c := NewMoodClassifier(context.Background(), nil, nil, nil, 0.5, 0.35, zap.NewNop())
	// "thanks" is a Happy keyword but the negation phrase wins.
	assert.Equal(t, domain.MoodAngry, c.Classify(context.Background(), "thanks for nothing, I am unhappy"))
}

func TestMoodAnchorLayer(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"anchor angry":   {1, 0},
		"anchor neutral": {0, 1},
		"seething text":  {0.95, 0.05},
		"faint text":     {0.3, -1},
	}}
	anchors := map[domain.Mood]string{
		domain.MoodAngry:   "anchor angry",
		domain.MoodNeutral: "anchor neutral",
	}
	c := NewMoodClassifier(context.Background(), nil, embedder, anchors, 0.5, 0.35, zap.NewNop())

	assert.Equal(t, domain.MoodAngry, c.Classify(context.Background(), "seething text"))
	// Best anchor is non-Neutral but under the floor, so Neutral wins.
	assert.Equal(t, domain.MoodNeutral, c.Classify(context.Background(), "faint text"))
}

func TestLinearMoodModelPredicts(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"angry text": {1, 0},
	}}
	model, err := NewLinearMoodModel(embedder,
		[]string{"Angry", "Neutral"},
		[][]float64{{5, 0}, {0, 5}},
		[]float64{0, 0})
	assert.NoError(t, err)

	mood, prob, err := model.PredictProba(context.Background(), "angry text")
	assert.NoError(t, err)
	assert.Equal(t, domain.MoodAngry, mood)
	assert.Greater(t, prob, 0.9)
}

func TestLinearMoodModelValidation(t *testing.T) {
	_, err := NewLinearMoodModel(&stubEmbedder{}, []string{"Angry"}, nil, nil)
	assert.Error(t, err)
}

func TestMoodFullyDegradedDefaultsNeutral(t *testing.T) {
	c := NewMoodClassifier(context.Background(), nil, nil, nil, 0.5, 0.35, zap.NewNop())
	assert.Equal(t, domain.MoodNeutral, c.Classify(context.Background(), "good day to you"))
}
