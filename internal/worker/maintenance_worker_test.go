package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/repository"
)

func TestSweepClosesOnlyStalePendingTickets(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "tickets.json"))
	require.NoError(t, err)

	stale := domain.NewTicket("stale@example.com", "order_status_inquiry", domain.MoodNeutral, nil, []string{"order_id"})
	stale.Status = domain.TicketStatusPendingCustomer
	stale.UpdatedAt = time.Now().UTC().Add(-100 * time.Hour)
	require.NoError(t, store.Put(ctx, stale))

	fresh := domain.NewTicket("fresh@example.com", "order_status_inquiry", domain.MoodNeutral, nil, []string{"order_id"})
	fresh.Status = domain.TicketStatusPendingCustomer
	require.NoError(t, store.Put(ctx, fresh))

	// Handoff tickets stay open regardless of age.
	handoff := domain.NewTicket("handoff@example.com", domain.IntentHumanHandoff, domain.MoodAngry, map[string]string{"query": "help"}, nil)
	handoff.UpdatedAt = time.Now().UTC().Add(-100 * time.Hour)
	require.NoError(t, store.Put(ctx, handoff))

	dispatcher := events.NewInMemoryDispatcher()
	var closedEvents []events.Event
	dispatcher.Subscribe(events.EventTicketClosed, func(_ context.Context, event events.Event) error {
		closedEvents = append(closedEvents, event)
		return nil
	})

	w := NewMaintenanceWorker(store, dispatcher, zap.NewNop(), nil, "@every 1h", 72*time.Hour)
	closed := w.Sweep(ctx)

	assert.Equal(t, 1, closed)
	require.Len(t, closedEvents, 1)
	assert.Equal(t, "stale@example.com", closedEvents[0].UserID)
	assert.Equal(t, events.TicketClosedPayload{Outcome: "stale_timeout"}, closedEvents[0].Payload)

	remaining, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, remaining, "fresh@example.com")
	assert.Contains(t, remaining, "handoff@example.com")
	assert.NotContains(t, remaining, "stale@example.com")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "tickets.json"))
	require.NoError(t, err)

	w := NewMaintenanceWorker(store, nil, zap.NewNop(), nil, "not a schedule", time.Hour)
	assert.Error(t, w.Start(context.Background()))
}
