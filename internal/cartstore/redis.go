// Package cartstore persists per-user cart line items in Redis.
//
// Each user's cart lives under its own key as a JSON-encoded,
// insertion-ordered list. Distinct users can never observe each
// other's entries.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"storefront-api/internal/domain"
)

type RedisStore struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedis(client *redis.Client, logger *log.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// Get returns the persisted line items for a user. A missing key reads
// as an empty cart. Malformed stored content also reads as empty: it is
// logged and will be overwritten by the next successful write, never
// surfaced to the caller.
func (s *RedisStore) Get(ctx context.Context, userID string) ([]domain.LineItem, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Printf("cart %s: malformed stored payload, treating as empty: %v", userID, err)
		return nil, nil
	}
	return items, nil
}

// Put replaces the user's stored list. The whole list is written at
// once; display order is preserved exactly as given.
func (s *RedisStore) Put(ctx context.Context, userID string, items []domain.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Del removes the user's cart entry entirely (post-checkout clear).
func (s *RedisStore) Del(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return "cart:" + userID
}
