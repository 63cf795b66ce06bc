package nlp

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

// MoodModel is the optional trained layer of the mood classifier. It
// returns the top label and its probability. Implementations must be
// pure with respect to shared state.
type MoodModel interface {
	PredictProba(ctx context.Context, text string) (domain.Mood, float64, error)
}

// MoodClassifier detects the customer's mood through a layered fallback
// chain: trained model, keyword lexicon, then nearest-anchor similarity.
// The first confident layer wins. A classifier with no usable model or
// embedder degrades to the lexicon layer; Classify never fails.
type MoodClassifier struct {
	model       MoodModel
	embedder    Embedder
	anchors     map[domain.Mood][]float64
	minProb     float64
	anchorFloor float64
	logger      *zap.Logger
}

// NewMoodClassifier precomputes mood anchor embeddings. model and
// embedder may each be nil; the corresponding layers are then skipped.
func NewMoodClassifier(ctx context.Context, model MoodModel, embedder Embedder, anchorPhrases map[domain.Mood]string, minProb, anchorFloor float64, logger *zap.Logger) *MoodClassifier {
	c := &MoodClassifier{
		model:       model,
		embedder:    embedder,
		minProb:     minProb,
		anchorFloor: anchorFloor,
		logger:      logger,
	}
	if embedder == nil {
		return c
	}

	moods := make([]domain.Mood, 0, len(anchorPhrases))
	phrases := make([]string, 0, len(anchorPhrases))
	for mood, phrase := range anchorPhrases {
		moods = append(moods, mood)
		phrases = append(phrases, phrase)
	}
	vectors, err := embedder.Embed(ctx, phrases)
	if err != nil {
		logger.Warn("mood anchor embedding failed; anchor layer disabled", zap.Error(err))
		return c
	}
	c.anchors = make(map[domain.Mood][]float64, len(moods))
	for i, mood := range moods {
		c.anchors[mood] = vectors[i]
	}
	return c
}

// Classify returns the detected mood for the text. Pure per input.
func (c *MoodClassifier) Classify(ctx context.Context, text string) domain.Mood {
	// Layer 1: trained model, accepted only above the probability
	// threshold, then checked against the safety overrides.
	if c.model != nil {
		mood, prob, err := c.model.PredictProba(ctx, text)
		switch {
		case err != nil:
			c.logger.Warn("mood model failed; falling back to lexicon", zap.Error(err))
		case prob >= c.minProb:
			return applyOverrides(mood, text)
		}
	}

	// Layer 2: keyword lexicon.
	if mood, ok := lexiconMood(text); ok {
		return mood
	}

	// Layer 3: nearest anchor, defaulting to Neutral for weak non-Neutral
	// winners.
	return c.anchorMood(ctx, text)
}

// applyOverrides corrects two known model biases after layer 1 accepts a
// label: a "Happy" verdict on text containing a negation-of-happiness
// phrase becomes Angry, and an "Urgent" verdict on calming language
// becomes Neutral.
func applyOverrides(mood domain.Mood, text string) domain.Mood {
	lower := strings.ToLower(text)
	if mood == domain.MoodHappy {
		for _, phrase := range happyNegations {
			if strings.Contains(lower, phrase) {
				return domain.MoodAngry
			}
		}
	}
	if mood == domain.MoodUrgent {
		for _, phrase := range calmPhrases {
			if strings.Contains(lower, phrase) {
				return domain.MoodNeutral
			}
		}
	}
	return mood
}

func lexiconMood(text string) (domain.Mood, bool) {
	lower := strings.ToLower(text)

	// Negated happiness wins over any other keyword hit.
	if strings.Contains(lower, "not happy") || strings.Contains(lower, "unhappy") {
		return domain.MoodAngry, true
	}
	for _, mood := range moodLexiconOrder {
		for _, word := range moodLexicon[mood] {
			if strings.Contains(lower, word) {
				return mood, true
			}
		}
	}
	return domain.MoodNeutral, false
}

func (c *MoodClassifier) anchorMood(ctx context.Context, text string) domain.Mood {
	if c.embedder == nil || len(c.anchors) == 0 {
		return domain.MoodNeutral
	}
	vector, err := embedOne(ctx, c.embedder, text)
	if err != nil {
		c.logger.Warn("mood embedding failed", zap.Error(err))
		return domain.MoodNeutral
	}

	best := domain.MoodNeutral
	bestScore := -1.0
	for mood, anchor := range c.anchors {
		if score := Cosine(vector, anchor); score > bestScore {
			bestScore = score
			best = mood
		}
	}
	if best != domain.MoodNeutral && bestScore < c.anchorFloor {
		return domain.MoodNeutral
	}
	return best
}
