package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for conversation tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "OPEN"
	TicketStatusPendingCustomer TicketStatus = "PENDING_CUSTOMER"
	TicketStatusResolved        TicketStatus = "RESOLVED"
)

// Severity is the triage level assigned to a ticket.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Mood is the detected emotional state of the customer's latest message.
type Mood string

const (
	MoodAngry    Mood = "Angry"
	MoodHappy    Mood = "Happy"
	MoodUrgent   Mood = "Urgent"
	MoodConfused Mood = "Confused"
	MoodNeutral  Mood = "Neutral"
)

// Sender indicates which side of the conversation authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single entry in a ticket's conversation history.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
}

// Ticket is the working state of one conversation. There is at most one
// active ticket per user; creating a new one replaces any existing entry.
//
// Intent is fixed for the ticket's lifetime. Mood is overwritten on every
// turn, while Severity is computed once at creation from the initial mood
// and intentionally never recomputed afterwards.
type Ticket struct {
	ID            string            `json:"ticket_id"`
	UserID        string            `json:"user_id"`
	Intent        string            `json:"intent"`
	Mood          Mood              `json:"mood"`
	Severity      Severity          `json:"severity"`
	Entities      map[string]string `json:"extracted_entities"`
	MissingFields []string          `json:"missing_fields"`
	Status        TicketStatus      `json:"status"`
	History       []Message         `json:"history"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewTicket creates an open ticket with severity derived from the initial
// mood. Slots already present in the seed entities are excluded from the
// missing-field list, preserving missingFields ∩ entities = ∅.
func NewTicket(userID, intent string, mood Mood, entities map[string]string, missingFields []string) *Ticket {
	now := time.Now().UTC()
	if entities == nil {
		entities = map[string]string{}
	}
	missing := make([]string, 0, len(missingFields))
	for _, field := range missingFields {
		if _, present := entities[field]; !present {
			missing = append(missing, field)
		}
	}
	return &Ticket{
		ID:            uuid.NewString(),
		UserID:        userID,
		Intent:        intent,
		Mood:          mood,
		Severity:      SeverityForMood(mood),
		Entities:      entities,
		MissingFields: missing,
		Status:        TicketStatusOpen,
		History:       []Message{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SeverityForMood maps an initial mood to a triage severity.
func SeverityForMood(mood Mood) Severity {
	switch mood {
	case MoodAngry, MoodUrgent:
		return SeverityHigh
	case MoodConfused:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// MergeEntities folds newly extracted values into the ticket and removes
// the corresponding slots from the missing-field list. Empty values are
// ignored so a failed extraction never clobbers earlier data.
func (t *Ticket) MergeEntities(found map[string]string) {
	updated := false
	for slot, value := range found {
		if value == "" {
			continue
		}
		if t.Entities == nil {
			t.Entities = map[string]string{}
		}
		t.Entities[slot] = value
		updated = true
	}
	if !updated {
		return
	}
	remaining := t.MissingFields[:0]
	for _, field := range t.MissingFields {
		if _, present := t.Entities[field]; !present {
			remaining = append(remaining, field)
		}
	}
	t.MissingFields = remaining
	t.UpdatedAt = time.Now().UTC()
}

// AddMessage appends an entry to the conversation history.
func (t *Ticket) AddMessage(sender Sender, text string) {
	t.History = append(t.History, Message{
		Timestamp: time.Now().UTC(),
		Sender:    sender,
		Text:      text,
	})
}

// Complete reports whether every required slot has been filled.
func (t *Ticket) Complete() bool {
	return len(t.MissingFields) == 0
}
