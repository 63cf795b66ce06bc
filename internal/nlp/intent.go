package nlp

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

// DefaultIntentAnchors maps each known intent label to a representative
// phrase whose embedding serves as the zero-shot anchor.
var DefaultIntentAnchors = map[string]string{
	"order_status_inquiry":         "Where is my order? Check order status. Tracking number.",
	"inventory_stock_availability": "Is this item in stock? Do you have this product?",
	"product_information_question": "Tell me about this product. What are the features?",
	"account_password_reset":       "I forgot my password. Reset my account access.",
	"general_faq_question":         "What is your return policy? How much is shipping?",
}

// IntentClassifier predicts an intent label by nearest-anchor cosine
// similarity over precomputed anchor embeddings. It is stateless per call.
type IntentClassifier struct {
	embedder Embedder
	anchors  map[string][]float64
	floor    float64
	logger   *zap.Logger
}

// NewIntentClassifier precomputes anchor embeddings. A nil embedder or a
// failed precomputation leaves the classifier in degraded mode: Classify
// then reports ("error", 0.0) instead of failing.
func NewIntentClassifier(ctx context.Context, embedder Embedder, anchorPhrases map[string]string, floor float64, logger *zap.Logger) *IntentClassifier {
	c := &IntentClassifier{
		embedder: embedder,
		floor:    floor,
		logger:   logger,
	}
	if embedder == nil {
		logger.Warn("intent classifier running without embedder")
		return c
	}

	labels := make([]string, 0, len(anchorPhrases))
	phrases := make([]string, 0, len(anchorPhrases))
	for label, phrase := range anchorPhrases {
		labels = append(labels, label)
		phrases = append(phrases, phrase)
	}
	vectors, err := embedder.Embed(ctx, phrases)
	if err != nil {
		logger.Warn("intent anchor embedding failed; classifier degraded", zap.Error(err))
		return c
	}
	c.anchors = make(map[string][]float64, len(labels))
	for i, label := range labels {
		c.anchors[label] = vectors[i]
	}
	return c
}

// Classify returns the best-matching intent label and its similarity
// score. Scores below the floor collapse to "unknown"; an unusable
// pipeline returns ("error", 0.0). The call never mutates shared state
// and never panics.
func (c *IntentClassifier) Classify(ctx context.Context, text string) (string, float64) {
	if c.embedder == nil || len(c.anchors) == 0 {
		return "error", 0.0
	}
	vector, err := embedOne(ctx, c.embedder, text)
	if err != nil {
		c.logger.Warn("intent embedding failed", zap.Error(err))
		return "error", 0.0
	}

	best := domain.IntentUnknown
	bestScore := -1.0
	for label, anchor := range c.anchors {
		if score := Cosine(vector, anchor); score > bestScore {
			bestScore = score
			best = label
		}
	}
	if bestScore < c.floor {
		return domain.IntentUnknown, bestScore
	}
	return best, bestScore
}
