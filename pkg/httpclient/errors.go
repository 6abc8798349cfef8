package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// envelope is the {success:false, message} body written by the catalog API.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// ParseResponseError reads a non-2xx response and turns it into an
// AppError whose status and sentinel match the response. Bodies that are
// not a failure envelope yield a plain error with the raw body. The body
// is consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	var env envelope
	if json.Unmarshal(raw, &env) != nil || env.Success == nil || *env.Success || env.Message == "" {
		return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(raw))
	}
	return mapStatus(resp.StatusCode, env.Message)
}

func mapStatus(status int, message string) error {
	var appErr *apperrors.AppError
	switch {
	case status == http.StatusNotFound:
		appErr = &apperrors.AppError{Code: "NOT_FOUND", Status: status, Err: apperrors.ErrNotFound}
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge:
		appErr = apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized:
		appErr = apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		appErr = apperrors.Forbidden(message)
	case status >= 500:
		appErr = apperrors.Upstream(message, nil)
	default:
		appErr = &apperrors.AppError{Code: "HTTP_ERROR", Status: status}
	}
	appErr.Message = message
	appErr.Status = status
	return appErr
}

// IsClientError reports whether status is a 4xx code.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
