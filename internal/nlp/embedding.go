// Package nlp hosts the semantic layers of the engine: text embeddings,
// anchor-based intent classification, and the layered mood classifier.
package nlp

import (
	"context"
	"errors"
	"math"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Embedder turns text into dense vectors. Implementations must be safe
// for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbedder builds an embedder for the given API key and model.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.EmbeddingModel(model),
	}
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("embedding response size mismatch")
	}
	vectors := make([][]float64, len(resp.Data))
	for i := range resp.Data {
		vectors[i] = resp.Data[i].Embedding
	}
	return vectors, nil
}

// Cosine computes cosine similarity between two vectors. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func embedOne(ctx context.Context, embedder Embedder, text string) ([]float64, error) {
	vectors, err := embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New("expected a single embedding")
	}
	return vectors[0], nil
}
