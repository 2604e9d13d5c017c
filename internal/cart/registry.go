package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/repository"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/session"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// SessionChecker resolves the identity bound to a live session, erroring
// when the session record is gone or expired. Satisfied by *session.Manager.
type SessionChecker interface {
	Identity(ctx context.Context, sessionID string) (*session.Identity, error)
}

// Registry maintains one cart container per live session and keeps each
// container's bound identity in step with the session manager. It implements
// session.Listener; wire it with manager.Subscribe(registry) at startup.
type Registry struct {
	store    repository.CartStore
	notifier Notifier
	sessions SessionChecker
	logger   *slog.Logger

	mu         sync.Mutex
	containers map[string]*Container // by session ID
}

// NewRegistry creates an empty registry.
func NewRegistry(store repository.CartStore, notifier Notifier, sessions SessionChecker, logger *slog.Logger) *Registry {
	return &Registry{
		store:      store,
		notifier:   notifier,
		sessions:   sessions,
		logger:     logger,
		containers: make(map[string]*Container),
	}
}

// OnIdentityChange binds or unbinds the session's container. A nil identity
// clears the in-memory cart immediately and drops the container; persisted
// state is untouched.
func (r *Registry) OnIdentityChange(ctx context.Context, sessionID string, identity *session.Identity) {
	if identity == nil {
		r.evict(sessionID)
		return
	}

	c := r.containerFor(sessionID)
	if err := c.BindIdentity(ctx, identity.UserID); err != nil {
		r.logger.WarnContext(ctx, "cart bind failed on identity change",
			slog.String("session_id", sessionID),
			slog.String("user_id", identity.UserID),
			slog.String("error", err.Error()),
		)
	}
}

// Resolve returns the session's container bound to userID, creating and
// binding one when the session is not yet tracked (e.g. after a restart).
// The session record must still exist: a logged-out or expired session is
// rejected even while its bearer token remains valid, and its container is
// evicted. A container already bound to a different user is never handed out.
func (r *Registry) Resolve(ctx context.Context, sessionID, userID string) (*Container, error) {
	if sessionID == "" || userID == "" {
		return nil, apperrors.Unauthorized("no active session")
	}

	identity, err := r.sessions.Identity(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrGone) {
			r.evict(sessionID)
		}
		return nil, err
	}
	if identity.UserID != userID {
		return nil, apperrors.Forbidden("session is bound to a different user")
	}

	c := r.containerFor(sessionID)
	if bound := c.UserID(); bound != "" && bound != userID {
		return nil, apperrors.Forbidden("session is bound to a different user")
	}

	if err := c.BindIdentity(ctx, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// evict drops the session's container, clearing its in-memory lines.
// Persisted cart state is untouched.
func (r *Registry) evict(sessionID string) {
	r.mu.Lock()
	c, ok := r.containers[sessionID]
	delete(r.containers, sessionID)
	r.mu.Unlock()

	if ok {
		c.Unbind()
	}
}

// EvictStale drops every container whose backing session record no longer
// exists, reclaiming memory for sessions that expired in the store or were
// simply abandoned. Transient store errors leave the container in place.
// Returns how many containers were evicted.
func (r *Registry) EvictStale(ctx context.Context) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	evicted := 0
	for _, id := range ids {
		_, err := r.sessions.Identity(ctx, id)
		if err == nil {
			continue
		}
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrGone) {
			r.evict(id)
			evicted++
		}
	}
	return evicted
}

// Janitor runs EvictStale every interval until ctx is canceled.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictStale(ctx); n > 0 {
				r.logger.Info("evicted stale cart containers", slog.Int("count", n))
			}
		}
	}
}

func (r *Registry) containerFor(sessionID string) *Container {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.containers[sessionID]
	if !ok {
		c = NewContainer(r.store, r.notifier, r.logger)
		r.containers[sessionID] = c
	}
	return c
}

// Len reports how many containers are live, for observability.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}
