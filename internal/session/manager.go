package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/repository"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// Identity is the resolved user principal bound to a session.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Listener is notified on every genuine identity transition of a session.
// A nil identity means the session is now unauthenticated. Notifications run
// synchronously inside the triggering operation; in particular, listeners
// observe the nil identity before Logout returns.
type Listener interface {
	OnIdentityChange(ctx context.Context, sessionID string, identity *Identity)
}

// AuthService is the remote token issuer. Satisfied by *AuthClient.
type AuthService interface {
	Token(ctx context.Context, email, password string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Manager owns session lifecycle: login, logout, startup resumption, and the
// identity-change subscription consumed by the cart registry.
type Manager struct {
	auth           AuthService
	store          repository.SessionStore
	verifier       *TokenVerifier
	logger         *slog.Logger
	resolveTimeout time.Duration

	mu           sync.Mutex
	listeners    []Listener
	lastNotified map[string]string // session ID -> last notified user ID
}

// NewManager creates a session manager. resolveTimeout bounds Resume; when
// resolution does not complete within it, the session fails safe to
// unauthenticated instead of hanging.
func NewManager(auth AuthService, store repository.SessionStore, verifier *TokenVerifier, resolveTimeout time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		auth:           auth,
		store:          store,
		verifier:       verifier,
		logger:         logger,
		resolveTimeout: resolveTimeout,
		lastNotified:   make(map[string]string),
	}
}

// Subscribe registers a listener for identity transitions.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// notify delivers an identity transition to all listeners, exactly once per
// genuine change: re-notifying the same user ID (or nil twice) is dropped.
func (m *Manager) notify(ctx context.Context, sessionID string, identity *Identity) {
	m.mu.Lock()

	var userID string
	if identity != nil {
		userID = identity.UserID
	}
	if m.lastNotified[sessionID] == userID {
		m.mu.Unlock()
		return
	}
	if userID == "" {
		delete(m.lastNotified, sessionID)
	} else {
		m.lastNotified[sessionID] = userID
	}
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.OnIdentityChange(ctx, sessionID, identity)
	}
}

// Login exchanges credentials for a token, verifies it, and creates a new
// session. Listeners are notified with the new identity before Login returns.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	token, err := m.auth.Token(ctx, email, password)
	if err != nil {
		return nil, err
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		m.logger.WarnContext(ctx, "auth issued unverifiable token", slog.String("error", err.Error()))
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: claims.ExpiryTime(),
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, apperrors.Internal(err)
	}

	m.notify(ctx, session.ID, &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})

	return session, nil
}

// Logout ends a session. Listeners observe the nil identity synchronously
// before the remote revoke, which runs fire-and-forget: the user is logged
// out locally whether or not the auth service confirms. Logging out an
// unknown session is a no-op.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		m.logger.WarnContext(ctx, "session lookup failed during logout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.WarnContext(ctx, "session delete failed during logout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	m.notify(ctx, sessionID, nil)

	if session != nil && session.Token != "" {
		go func(token string) {
			revokeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.auth.Revoke(revokeCtx, token); err != nil {
				m.logger.Warn("token revoke failed", slog.String("error", err.Error()))
			}
		}(session.Token)
	}

	return nil
}

// Resume rebuilds a session from a previously issued token, typically at
// client startup. Resolution is bounded by the configured timeout; on
// timeout or any failure the session fails safe to unauthenticated and no
// artifacts are left behind.
func (m *Manager) Resume(ctx context.Context, token string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, m.resolveTimeout)
	defer cancel()

	claims, err := m.verifier.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired session token")
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: claims.ExpiryTime(),
	}

	if err := m.store.Save(ctx, session); err != nil {
		// Clean up whatever may have landed before the failure, then force
		// the unauthenticated state.
		if delErr := m.store.Delete(context.WithoutCancel(ctx), session.ID); delErr != nil {
			m.logger.Warn("session cleanup failed after resume failure",
				slog.String("session_id", session.ID),
				slog.String("error", delErr.Error()),
			)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.ServiceUnavailable("session resolution timed out")
		}
		return nil, apperrors.Internal(err)
	}

	m.notify(ctx, session.ID, &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})

	return session, nil
}

// Identity resolves the identity bound to a session, or an error when the
// session is unknown or expired.
func (m *Manager) Identity(ctx context.Context, sessionID string) (*Identity, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("no active session")
		}
		return nil, err
	}

	if session.Expired(time.Now().UTC()) {
		_ = m.store.Delete(ctx, sessionID)
		return nil, apperrors.Gone("session expired")
	}

	return &Identity{UserID: session.UserID, Email: session.Email, Role: session.Role}, nil
}

// VerifyToken exposes local token validation for the HTTP auth middleware.
func (m *Manager) VerifyToken(token string) (*TokenClaims, error) {
	return m.verifier.Verify(token)
}
