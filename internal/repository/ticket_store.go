// Package repository persists conversation tickets behind a small
// key-value interface so the backing mechanism (file snapshot, Redis,
// Postgres) is swappable without touching orchestration logic.
package repository

import (
	"context"

	"github.com/spec-kit/support-engine/internal/domain"
)

// TicketStore owns Ticket lifetime, keyed by user id. Implementations
// persist on every mutating call and load the full set at startup.
//
// Get returns (nil, nil) when the user has no active ticket.
type TicketStore interface {
	Get(ctx context.Context, userID string) (*domain.Ticket, error)
	Put(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, userID string) error
	LoadAll(ctx context.Context) (map[string]*domain.Ticket, error)
}
