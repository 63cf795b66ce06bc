package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spec-kit/support-engine/internal/domain"
)

// LinearMoodModel is a softmax head over text embeddings, the exported
// form of the trained mood classifier. Weights are one row per label in
// label order; each row has the embedding dimensionality.
type LinearMoodModel struct {
	embedder Embedder
	labels   []domain.Mood
	weights  [][]float64
	biases   []float64
}

type moodModelFile struct {
	Labels  []string    `json:"labels"`
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// LoadLinearMoodModel reads exported model weights from a JSON file.
func LoadLinearMoodModel(path string, embedder Embedder) (*LinearMoodModel, error) {
	if embedder == nil {
		return nil, errors.New("mood model requires an embedder")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file moodModelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewLinearMoodModel(embedder, file.Labels, file.Weights, file.Biases)
}

// NewLinearMoodModel validates and builds a model from raw parameters.
func NewLinearMoodModel(embedder Embedder, labels []string, weights [][]float64, biases []float64) (*LinearMoodModel, error) {
	if len(labels) == 0 || len(weights) != len(labels) || len(biases) != len(labels) {
		return nil, errors.New("mood model: labels, weights, and biases must align")
	}
	moods := make([]domain.Mood, len(labels))
	for i, label := range labels {
		moods[i] = domain.Mood(label)
	}
	return &LinearMoodModel{
		embedder: embedder,
		labels:   moods,
		weights:  weights,
		biases:   biases,
	}, nil
}

// PredictProba embeds the text and returns the top label with its
// softmax probability.
func (m *LinearMoodModel) PredictProba(ctx context.Context, text string) (domain.Mood, float64, error) {
	vector, err := embedOne(ctx, m.embedder, text)
	if err != nil {
		return domain.MoodNeutral, 0, err
	}

	logits := make([]float64, len(m.labels))
	for i, row := range m.weights {
		if len(row) != len(vector) {
			return domain.MoodNeutral, 0, errors.New("mood model: weight dimensionality mismatch")
		}
		sum := m.biases[i]
		for j := range row {
			sum += row[j] * vector[j]
		}
		logits[i] = sum
	}

	// Softmax, shifted for numeric stability.
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var total float64
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		total += probs[i]
	}

	bestIdx := 0
	for i := range probs {
		probs[i] /= total
		if probs[i] > probs[bestIdx] {
			bestIdx = i
		}
	}
	return m.labels[bestIdx], probs[bestIdx], nil
}
