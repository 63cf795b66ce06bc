package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
)

// NotificationService reacts to ticket lifecycle events. Delivery is a
// structured log line per event; high severity handoffs additionally go
// through the pager hook when one is configured.
type NotificationService struct {
	logger *zap.Logger
	pager  PagerHook
}

// PagerHook forwards urgent handoffs to an external on-call channel.
type PagerHook func(ctx context.Context, userID, query string) error

// NewNotificationService constructs the service.
func NewNotificationService(logger *zap.Logger, pager PagerHook) *NotificationService {
	return &NotificationService{logger: logger, pager: pager}
}

// Register subscribes the service to every ticket lifecycle event.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketPendingCustomer, s.onTicketPending)
	dispatcher.Subscribe(events.EventTicketHandoff, s.onTicketHandoff)
	dispatcher.Subscribe(events.EventTicketClosed, s.onTicketClosed)
}

func (s *NotificationService) onTicketCreated(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketCreatedPayload)
	s.logger.Info("notification: ticket created",
		zap.String("ticket_id", event.TicketID),
		zap.String("user_id", event.UserID),
		zap.String("intent", payload.Intent),
		zap.String("severity", string(payload.Severity)))
	return nil
}

func (s *NotificationService) onTicketPending(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketPendingCustomerPayload)
	s.logger.Info("notification: waiting on customer",
		zap.String("ticket_id", event.TicketID),
		zap.String("user_id", event.UserID),
		zap.Strings("missing_fields", payload.MissingFields))
	return nil
}

func (s *NotificationService) onTicketHandoff(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketHandoffPayload)
	s.logger.Warn("notification: human handoff requested",
		zap.String("ticket_id", event.TicketID),
		zap.String("user_id", event.UserID),
		zap.String("severity", string(payload.Severity)))
	if s.pager != nil && payload.Severity == domain.SeverityHigh {
		if err := s.pager(ctx, event.UserID, payload.Query); err != nil {
			s.logger.Error("pager hook failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationService) onTicketClosed(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketClosedPayload)
	s.logger.Info("notification: ticket closed",
		zap.String("ticket_id", event.TicketID),
		zap.String("user_id", event.UserID),
		zap.String("outcome", payload.Outcome))
	return nil
}
