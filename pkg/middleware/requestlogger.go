package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, pre-tagged
// with correlation_id, user_id, trace_id, and span_id. Handlers pull it back
// out with logger.FromContext.
//
// Mount it after RequestLogging (correlation ID), Tracing (span context),
// and Auth (user ID), since it snapshots whatever those have put on the
// context.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
