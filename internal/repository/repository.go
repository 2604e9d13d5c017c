package repository

import (
	"context"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
)

// CartStore defines the persistence contract for per-identity carts.
// Implementations always overwrite the whole collection; there are no
// partial writes.
type CartStore interface {
	// Get retrieves the persisted cart lines for a user. A missing key
	// returns a not-found error; a corrupt value is the caller's cue to
	// treat the cart as empty.
	Get(ctx context.Context, userID string) ([]domain.CartLine, error)

	// Save persists the full cart line collection for a user, replacing
	// whatever was stored before.
	Save(ctx context.Context, userID string, lines []domain.CartLine) error

	// Delete removes the persisted cart for a user.
	Delete(ctx context.Context, userID string) error
}

// SessionStore defines the persistence contract for session records.
type SessionStore interface {
	// Get retrieves a session by its ID.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Save persists a session record with a TTL derived from its expiry.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes a session record.
	Delete(ctx context.Context, sessionID string) error
}
