package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/cart"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/middleware"
)

// SessionIDHeader carries the client's session identifier. One session maps
// to one live cart container.
const SessionIDHeader = "X-Session-ID"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	cartKey      contextKey = "cart_container"
)

// RequireSession extracts the X-Session-ID header into the request context,
// rejecting requests without one.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(SessionIDHeader))
		if sessionID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: SessionIDHeader + " header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithCart resolves the caller's cart container from the session and
// authenticated identity, and stores it in the request context. Must run
// after middleware.Auth and RequireSession.
func WithCart(registry *cart.Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromContext(r.Context())
			userID := middleware.UserIDFromContext(r.Context())

			container, err := registry.Resolve(r.Context(), sessionID, userID)
			if err != nil {
				httputil.WriteError(w, r, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), cartKey, container)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}

func cartFromContext(ctx context.Context) *cart.Container {
	container, _ := ctx.Value(cartKey).(*cart.Container)
	return container
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") && !strings.HasPrefix(ct, "multipart/form-data") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
