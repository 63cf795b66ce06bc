// Package faq implements semantic retrieval over the FAQ knowledge base.
package faq

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/nlp"
)

// Match is a knowledge-base hit returned to the orchestrator.
type Match struct {
	ID     string
	Answer string
	Score  float64
}

// Matcher finds the FAQ entry best matching free text, or nothing. A
// Matcher must never fail a turn: internal faults degrade to no match.
type Matcher interface {
	BestMatch(ctx context.Context, text string, threshold float64) (*Match, bool)
}

// Engine matches queries against precomputed question embeddings.
type Engine struct {
	embedder   nlp.Embedder
	entries    []domain.FAQEntry
	embeddings [][]float64
	entryIdx   []int
	logger     *zap.Logger
}

// NewEngine precomputes embeddings for every phrasing variant of every
// knowledge-base entry. With no embedder, or on embedding failure, the
// engine stays usable and simply never matches.
func NewEngine(ctx context.Context, embedder nlp.Embedder, kb *domain.KnowledgeBase, logger *zap.Logger) *Engine {
	e := &Engine{
		embedder: embedder,
		entries:  kb.Entries,
		logger:   logger,
	}
	if embedder == nil || len(kb.Entries) == 0 {
		if len(kb.Entries) == 0 {
			logger.Warn("knowledge base is empty; FAQ matching disabled")
		}
		return e
	}

	questions := []string{}
	for i, entry := range kb.Entries {
		for _, q := range entry.Questions {
			questions = append(questions, q)
			e.entryIdx = append(e.entryIdx, i)
		}
	}
	vectors, err := embedder.Embed(ctx, questions)
	if err != nil {
		logger.Warn("knowledge base embedding failed; FAQ matching disabled", zap.Error(err))
		e.entryIdx = nil
		return e
	}
	e.embeddings = vectors
	return e
}

// BestMatch returns the entry whose best question scores at or above the
// threshold. Any internal fault returns no match.
func (e *Engine) BestMatch(ctx context.Context, text string, threshold float64) (*Match, bool) {
	if e.embedder == nil || len(e.embeddings) == 0 {
		return nil, false
	}
	query, err := e.embedder.Embed(ctx, []string{text})
	if err != nil || len(query) != 1 {
		e.logger.Warn("faq query embedding failed", zap.Error(err))
		return nil, false
	}

	bestIdx := -1
	bestScore := -1.0
	for i, vector := range e.embeddings {
		if score := nlp.Cosine(query[0], vector); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < threshold {
		return nil, false
	}
	entry := e.entries[e.entryIdx[bestIdx]]
	return &Match{ID: entry.ID, Answer: entry.Answer, Score: bestScore}, true
}
