package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, SuccessResponse{Success: true})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestWriteFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFailure(rec, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"bad input"}`, rec.Body.String())
}

func TestWriteError_AppErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NotFound("product"), http.StatusNotFound, "Product Not Found"},
		{"wrapped not found", fmt.Errorf("get product: %w", apperrors.NotFound("product")), http.StatusNotFound, "Product Not Found"},
		{"missing field", apperrors.MissingField("stock"), http.StatusBadRequest, "Please provide stock"},
		{"upstream", apperrors.Upstream("price must be greater than or equal to 0", nil), http.StatusInternalServerError, "price must be greater than or equal to 0"},
		{"bare sentinel", apperrors.ErrNotFound, http.StatusNotFound, "Resource Not Found"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

			WriteError(rec, req, tt.err, testLogger())

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestWriteError_IncludesCorrelationID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithCorrelationID(context.Background(), "corr-9"))

	WriteError(rec, req, apperrors.NotFound("product"), testLogger())

	assert.Equal(t, "corr-9", decodeError(t, rec).RequestID)
}

func TestWriteValidationError(t *testing.T) {
	type body struct {
		Amount int `json:"amount" validate:"gt=0"`
	}
	rec := httptest.NewRecorder()
	WriteValidationError(rec, validator.Validate(body{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "must be greater than 0", resp.Fields["amount"])

	rec = httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: EOF"))
	assert.Equal(t, "decode request body: EOF", decodeError(t, rec).Message)
}

func TestParseUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, "4d6f1f0e-2c43-4a43-9a1e-5a1f4c3b2a10")
	assert.True(t, ok)
	assert.Equal(t, "4d6f1f0e-2c43-4a43-9a1e-5a1f4c3b2a10", id.String())

	rec = httptest.NewRecorder()
	_, ok = ParseUUID(rec, "abc")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Resource Not Found. Invalid: abc", decodeError(t, rec).Message)
}
