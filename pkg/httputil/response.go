package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/validator"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// SuccessResponse is the body of endpoints that only acknowledge an action.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteFailure writes {success:false, message} with the given status.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteError maps err to a status code and writes the failure envelope.
// AppErrors carry their own status and message; 5xx errors are logged with
// the request-scoped logger when the RequestLogger middleware is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	status := apperrors.HTTPStatus(err)
	message := "Internal Server Error"

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		message = "Resource Not Found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, ErrorResponse{Message: message, RequestID: requestID})
}

// WriteValidationError writes a 400 response, listing offending fields when
// err comes from the validator package.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: valErr.Error(),
			Fields:  valErr.Fields(),
		})
		return
	}
	WriteFailure(w, http.StatusBadRequest, err.Error())
}

// ParseUUID validates param as a UUID. On failure it writes a 400 response
// and returns false so the caller can return early.
func ParseUUID(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteFailure(w, http.StatusBadRequest, "Resource Not Found. Invalid: "+param)
		return uuid.Nil, false
	}
	return id, true
}
