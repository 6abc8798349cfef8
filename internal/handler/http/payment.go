package http

import (
	"log/slog"
	"net/http"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/service"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
)

// PaymentHandler handles payment intent endpoints.
type PaymentHandler struct {
	service *service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{service: svc, logger: logger}
}

// ProcessPaymentRequest is the body of POST /api/v1/payment/process.
// Amount is in the smallest currency unit.
type ProcessPaymentRequest struct {
	Amount  domain.Number `json:"amount"`
	Email   string        `json:"email"`
	PhoneNo string        `json:"phoneNo"`
}

type processPaymentResponse struct {
	Success      bool   `json:"success"`
	ClientSecret string `json:"client_secret"`
}

type apiKeyResponse struct {
	Success      bool   `json:"success"`
	StripeAPIKey string `json:"stripeApiKey"`
}

// ProcessPayment handles POST /api/v1/payment/process.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	intent, err := h.service.ProcessPayment(r.Context(), service.PaymentRequest{
		Amount: int64(req.Amount.Int()),
		Email:  req.Email,
		Phone:  req.PhoneNo,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, processPaymentResponse{Success: true, ClientSecret: intent.ClientSecret})
}

// GetAPIKey handles GET /api/v1/stripeapikey.
func (h *PaymentHandler) GetAPIKey(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, apiKeyResponse{Success: true, StripeAPIKey: h.service.PublishableKey()})
}
