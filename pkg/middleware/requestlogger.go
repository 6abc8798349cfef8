package middleware

import (
	"log/slog"
	"net/http"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

// RequestLogger stores a logger enriched with the request's correlation,
// user and trace IDs in the context, retrievable with logger.FromContext.
// Mount it after RequestLogging and Tracing; mount it again after Auth to
// pick up the user ID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
