package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/middleware"
)

// decodeBody reads a JSON body into dst. It writes a 400 and returns false
// when the body is malformed or too large.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteFailure(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		httputil.WriteFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// actor returns the authenticated caller's user ID.
func actor(r *http.Request) string {
	if c := middleware.ClaimsFromContext(r.Context()); c != nil {
		return c.UserID
	}
	return ""
}
