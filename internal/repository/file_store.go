package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spec-kit/support-engine/internal/domain"
)

// FileStore keeps tickets in memory and mirrors the full map to a JSON
// file on every mutation. Writes go through a temp file and rename, so a
// crash mid-write can lose the latest mutation but never corrupts the
// previous snapshot.
type FileStore struct {
	path string

	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

// NewFileStore loads the snapshot at path, if any.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		tickets: map[string]*domain.Ticket{},
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read ticket snapshot: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.tickets); err != nil {
		return nil, fmt.Errorf("parse ticket snapshot %s: %w", path, err)
	}
	return s, nil
}

// Get returns the user's active ticket, or nil.
func (s *FileStore) Get(_ context.Context, userID string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[userID]
	if !ok {
		return nil, nil
	}
	return cloneTicket(ticket), nil
}

// Put stores the ticket and persists the snapshot.
func (s *FileStore) Put(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.UserID] = cloneTicket(ticket)
	return s.persistLocked()
}

// Delete removes the user's ticket and persists the snapshot. Deleting
// an absent ticket is a no-op.
func (s *FileStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[userID]; !ok {
		return nil
	}
	delete(s.tickets, userID)
	return s.persistLocked()
}

// LoadAll returns a copy of every active ticket keyed by user id.
func (s *FileStore) LoadAll(_ context.Context) (map[string]*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*domain.Ticket, len(s.tickets))
	for userID, ticket := range s.tickets {
		out[userID] = cloneTicket(ticket)
	}
	return out, nil
}

func (s *FileStore) persistLocked() error {
	raw, err := json.MarshalIndent(s.tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ticket snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write ticket snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ticket snapshot: %w", err)
	}
	return nil
}

// cloneTicket deep-copies a ticket so callers cannot mutate the cached
// copy behind the store's back.
func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.Entities = make(map[string]string, len(t.Entities))
	for k, v := range t.Entities {
		clone.Entities[k] = v
	}
	clone.MissingFields = append([]string(nil), t.MissingFields...)
	clone.History = append([]domain.Message(nil), t.History...)
	return &clone
}
