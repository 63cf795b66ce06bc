package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-engine/internal/domain"
)

// RedisStore keeps one serialized ticket per user under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ticket:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// Get returns the user's active ticket, or nil.
func (s *RedisStore) Get(ctx context.Context, userID string) (*domain.Ticket, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket for %s: %w", userID, err)
	}
	return &ticket, nil
}

// Put stores the ticket under the user's key.
func (s *RedisStore) Put(ctx context.Context, ticket *domain.Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	if err := s.client.Set(ctx, s.key(ticket.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the user's ticket.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// LoadAll scans every ticket key and decodes the stored tickets.
func (s *RedisStore) LoadAll(ctx context.Context) (map[string]*domain.Ticket, error) {
	out := map[string]*domain.Ticket{}
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("redis get %s: %w", key, err)
		}
		var ticket domain.Ticket
		if err := json.Unmarshal(raw, &ticket); err != nil {
			return nil, fmt.Errorf("decode ticket at %s: %w", key, err)
		}
		out[strings.TrimPrefix(key, s.prefix)] = &ticket
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return out, nil
}
