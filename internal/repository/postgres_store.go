package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-engine/internal/domain"
)

// PostgresStore keeps one JSONB snapshot row per user, upserted on every
// mutation. The whole Ticket (history included) round-trips through the
// payload column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get returns the user's active ticket, or nil.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*domain.Ticket, error) {
	const query = `SELECT payload FROM conversation_tickets WHERE user_id=$1`
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select ticket: %w", err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket for %s: %w", userID, err)
	}
	return &ticket, nil
}

// Put upserts the ticket snapshot for the user.
func (s *PostgresStore) Put(ctx context.Context, ticket *domain.Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	const query = `
        INSERT INTO conversation_tickets (user_id, payload, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`
	if _, err := s.pool.Exec(ctx, query, ticket.UserID, raw); err != nil {
		return fmt.Errorf("upsert ticket: %w", err)
	}
	return nil
}

// Delete removes the user's ticket row.
func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM conversation_tickets WHERE user_id=$1`
	if _, err := s.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

// LoadAll returns every stored ticket keyed by user id.
func (s *PostgresStore) LoadAll(ctx context.Context) (map[string]*domain.Ticket, error) {
	const query = `SELECT user_id, payload FROM conversation_tickets`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}
	defer rows.Close()

	out := map[string]*domain.Ticket{}
	for rows.Next() {
		var userID string
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		var ticket domain.Ticket
		if err := json.Unmarshal(raw, &ticket); err != nil {
			return nil, fmt.Errorf("decode ticket for %s: %w", userID, err)
		}
		out[userID] = &ticket
	}
	return out, rows.Err()
}
