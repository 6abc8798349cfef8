package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

// CorrelationHeader carries the request correlation ID in both directions.
const CorrelationHeader = "X-Correlation-ID"

// RequestLogging assigns a correlation ID (reusing the inbound header when
// present) and writes one access log line per request. Health and metrics
// probes are logged at debug.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(CorrelationHeader)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := logger.WithCorrelationID(r.Context(), id)
			w.Header().Set(CorrelationHeader, id)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case isProbe(r.URL.Path):
				level = slog.LevelDebug
			}
			l.LogAttrs(ctx, level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("correlation_id", id),
			)
		})
	}
}

func isProbe(path string) bool {
	return strings.HasPrefix(path, "/health") || path == "/metrics"
}
