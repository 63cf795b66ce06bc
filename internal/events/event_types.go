package events

import (
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketPendingCustomer EventType = "ticket_pending_customer"
	EventTicketHandoff         EventType = "ticket_handoff"
	EventTicketClosed          EventType = "ticket_closed"
)

// Event represents a conversation lifecycle event emitted by the flow
// service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Intent   string          `json:"intent"`
	Mood     domain.Mood     `json:"mood"`
	Severity domain.Severity `json:"severity"`
}

// TicketPendingCustomerPayload payload.
type TicketPendingCustomerPayload struct {
	MissingFields []string `json:"missing_fields"`
}

// TicketHandoffPayload payload.
type TicketHandoffPayload struct {
	Query    string          `json:"query"`
	Severity domain.Severity `json:"severity"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	Outcome string `json:"outcome"`
}
