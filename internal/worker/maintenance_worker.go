package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/repository"
)

// MaintenanceWorker periodically sweeps tickets that have been waiting
// on the customer longer than the idle TTL and closes them. Open
// handoff tickets are never swept; they belong to an operator.
type MaintenanceWorker struct {
	store    repository.TicketStore
	events   events.Dispatcher
	logger   *zap.Logger
	metrics  *observability.Metrics
	schedule string
	idleTTL  time.Duration
	cron     *cron.Cron
}

// NewMaintenanceWorker constructs the worker.
func NewMaintenanceWorker(store repository.TicketStore, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, schedule string, idleTTL time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		store:    store,
		events:   dispatcher,
		logger:   logger,
		metrics:  metrics,
		schedule: schedule,
		idleTTL:  idleTTL,
	}
}

// Start schedules the sweep. Returns an error if the schedule spec is
// invalid.
func (w *MaintenanceWorker) Start(ctx context.Context) error {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("maintenance worker started",
		zap.String("schedule", w.schedule),
		zap.Duration("idle_ttl", w.idleTTL))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *MaintenanceWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("maintenance worker stopped")
}

// Sweep closes pending-customer tickets idle beyond the TTL. Returns
// the number of tickets closed.
func (w *MaintenanceWorker) Sweep(ctx context.Context) int {
	tickets, err := w.store.LoadAll(ctx)
	if err != nil {
		w.logger.Error("sweep load failed", zap.Error(err))
		return 0
	}

	cutoff := time.Now().UTC().Add(-w.idleTTL)
	closed := 0
	for userID, ticket := range tickets {
		if ticket.Status != domain.TicketStatusPendingCustomer {
			continue
		}
		if ticket.UpdatedAt.After(cutoff) {
			continue
		}
		if err := w.store.Delete(ctx, userID); err != nil {
			w.logger.Error("sweep close failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		closed++
		w.metrics.RecordTicketClosed()
		w.logger.Info("stale ticket closed",
			zap.String("ticket_id", ticket.ID),
			zap.String("user_id", userID),
			zap.Time("last_update", ticket.UpdatedAt))
		if w.events != nil {
			_ = w.events.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventTicketClosed,
				TicketID:  ticket.ID,
				UserID:    userID,
				Timestamp: time.Now().UTC(),
				Payload:   events.TicketClosedPayload{Outcome: "stale_timeout"},
			})
		}
	}
	return closed
}
