package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/repository"
	"github.com/spec-kit/support-engine/pkg/util"
)

// TicketAdminService exposes operator operations over the active ticket
// set: inspection and manual closing. It never creates tickets; only
// the conversation flow does.
type TicketAdminService struct {
	store   repository.TicketStore
	events  events.Dispatcher
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewTicketAdminService constructs the service.
func NewTicketAdminService(store repository.TicketStore, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *TicketAdminService {
	return &TicketAdminService{store: store, events: dispatcher, logger: logger, metrics: metrics}
}

// ActiveTickets lists every open or pending ticket, most recently
// touched first.
func (s *TicketAdminService) ActiveTickets(ctx context.Context) ([]*domain.Ticket, error) {
	byUser, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, util.NewUnavailable("list tickets", err)
	}
	tickets := make([]*domain.Ticket, 0, len(byUser))
	for _, ticket := range byUser {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt)
	})
	return tickets, nil
}

// TicketForUser returns the user's active ticket.
func (s *TicketAdminService) TicketForUser(ctx context.Context, userID string) (*domain.Ticket, error) {
	ticket, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, util.NewUnavailable("load ticket", err)
	}
	if ticket == nil {
		return nil, util.NewNotFound("no active ticket for user")
	}
	return ticket, nil
}

// CloseTicket resolves and removes the user's active ticket. Used by
// operators after a human handoff has been handled.
func (s *TicketAdminService) CloseTicket(ctx context.Context, userID string) error {
	ticket, err := s.store.Get(ctx, userID)
	if err != nil {
		return util.NewUnavailable("load ticket", err)
	}
	if ticket == nil {
		return util.NewNotFound("no active ticket for user")
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return util.NewUnavailable("close ticket", err)
	}
	s.metrics.RecordTicketClosed()
	s.logger.Info("ticket closed by operator",
		zap.String("ticket_id", ticket.ID),
		zap.String("user_id", userID))
	if s.events != nil {
		_ = s.events.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketClosed,
			TicketID:  ticket.ID,
			UserID:    userID,
			Timestamp: time.Now().UTC(),
			Payload:   events.TicketClosedPayload{Outcome: "operator_closed"},
		})
	}
	return nil
}
