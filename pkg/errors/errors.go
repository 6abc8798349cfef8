package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// Sentinel errors matched with errors.Is across package boundaries.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream failure")
)

// AppError is an error that knows how it should be reported to an HTTP caller.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error such as "Product Not Found".
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: capitalize(resource) + " Not Found",
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error carrying the message verbatim.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// MissingField creates the 400 error returned when a required field is absent.
func MissingField(field string) *AppError {
	return InvalidInput("Please provide " + field)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Upstream creates a 500 error for a persistence or processor failure. Unlike
// an opaque internal error its message is shown to the caller.
func Upstream(message string, err error) *AppError {
	if err == nil {
		err = ErrUpstream
	} else {
		err = fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return &AppError{
		Code:    "UPSTREAM_FAILURE",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Validation creates a 400 error from a failed schema check. The message
// is err's text and err stays reachable with errors.As, so callers can list
// the offending fields.
func Validation(err error) *AppError {
	e := InvalidInput(err.Error())
	e.Err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
	return e
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return strings.TrimSpace(string(r))
}
