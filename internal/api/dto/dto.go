package dto

import (
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// MessageRequest is one inbound conversation turn.
type MessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// MessageResponse carries the engine's reply.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// TicketSummary is the operator list view of an active ticket.
type TicketSummary struct {
	TicketID      string              `json:"ticket_id"`
	UserID        string              `json:"user_id"`
	Intent        string              `json:"intent"`
	Mood          domain.Mood         `json:"mood"`
	Severity      domain.Severity     `json:"severity"`
	Status        domain.TicketStatus `json:"status"`
	MissingFields []string            `json:"missing_fields"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// HistoryEntry is one message of a ticket transcript.
type HistoryEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Sender    domain.Sender `json:"sender"`
	Text      string        `json:"text"`
}

// TicketDetail is the operator view of a single ticket.
type TicketDetail struct {
	TicketSummary
	Entities map[string]string `json:"extracted_entities"`
	History  []HistoryEntry    `json:"history"`
}
