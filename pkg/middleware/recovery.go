package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
)

// Recovery turns a handler panic into a 500 failure envelope.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", p),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteFailure(w, http.StatusInternalServerError, "Internal Server Error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
