package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

type claimsKey struct{}

// TokenCookie is the cookie consulted when no Authorization header is sent.
const TokenCookie = "token"

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenValidator verifies a raw token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth rejects requests without a valid token with 401. The token is read
// from a bearer Authorization header, falling back to the token cookie.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.WriteFailure(w, http.StatusUnauthorized, "Please Login to Access")
				return
			}
			claims, err := validate(token)
			if err != nil {
				httputil.WriteFailure(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole allows only callers whose role is one of roles. It must be
// mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httputil.WriteFailure(w, http.StatusUnauthorized, "Please Login to Access")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				httputil.WriteFailure(w, http.StatusForbidden, "Role: "+claims.Role+" is not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by Auth, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
