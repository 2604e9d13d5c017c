package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

const cartKeyPrefix = "cart_"

// CartStore implements repository.CartStore using Redis. Each cart is stored
// as a JSON array of lines under cart_{userID}.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a new Redis-backed cart store.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart lines for a user from Redis.
func (s *CartStore) Get(ctx context.Context, userID string) ([]domain.CartLine, error) {
	key := cartKeyPrefix + userID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return lines, nil
}

// Save persists the full line collection for a user with the configured TTL.
// An empty cart is written as an empty array, not deleted.
func (s *CartStore) Save(ctx context.Context, userID string, lines []domain.CartLine) error {
	key := cartKeyPrefix + userID

	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the persisted cart for a user.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	key := cartKeyPrefix + userID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
