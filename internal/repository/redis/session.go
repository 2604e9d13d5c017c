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

const sessionKeyPrefix = "session_"

// SessionStore implements repository.SessionStore using Redis. Records are
// stored as JSON under session_{id} and expire with the session token.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Get retrieves a session record by ID.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := sessionKeyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("session", sessionID)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

// Save persists a session record. The TTL tracks the session expiry so stale
// records evict themselves.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	key := sessionKeyPrefix + session.ID

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.Gone("session already expired")
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Delete removes a session record.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}

	return nil
}
