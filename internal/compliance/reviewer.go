// Package compliance vets drafted replies for tone and safety before
// they are sent. The reviewer is a final quality gate and must fail
// open: a collaborator outage never blocks message delivery.
package compliance

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

// Reviewer reviews a drafted reply given the customer's mood and returns
// the (possibly revised) text. Implementations must return the draft
// unchanged on any internal error.
type Reviewer interface {
	Review(ctx context.Context, draft string, mood domain.Mood) string
}

// PassthroughReviewer returns every draft unchanged. Used when no review
// model is configured.
type PassthroughReviewer struct{}

// Review returns the draft as-is.
func (PassthroughReviewer) Review(_ context.Context, draft string, _ domain.Mood) string {
	return draft
}

// OpenAIReviewer asks a chat model to vet the draft for tone and safety.
type OpenAIReviewer struct {
	client openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

// NewOpenAIReviewer builds a reviewer against the given model.
func NewOpenAIReviewer(apiKey, model string, logger *zap.Logger) *OpenAIReviewer {
	return &OpenAIReviewer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
		logger: logger,
	}
}

const reviewSystemPrompt = `Act as a senior customer support compliance officer.
Review the draft reply for safety, professionalism, and empathy.
If the customer mood is Angry, ensure the reply is apologetic and reassuring.
If the customer mood is Happy, ensure the reply is warm and appreciative.
Return ONLY the final version of the reply, with no commentary.`

// Review sends the draft for vetting. Empty responses and errors fail
// open, returning the original draft.
func (r *OpenAIReviewer) Review(ctx context.Context, draft string, mood domain.Mood) string {
	prompt := fmt.Sprintf("Customer mood: %s\n\nDraft to review:\n%s", mood, draft)
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(reviewSystemPrompt),
			openai.UserMessage(prompt),
		},
		Model: r.model,
	})
	if err != nil {
		r.logger.Warn("compliance review failed open", zap.Error(err))
		return draft
	}
	if len(resp.Choices) == 0 {
		return draft
	}
	vetted := strings.TrimSpace(resp.Choices[0].Message.Content)
	if vetted == "" {
		return draft
	}
	return vetted
}
