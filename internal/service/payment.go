package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/0311869uaslp-a11y/Market-pro/internal/payment"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/breaker"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// PaymentRequest is a checkout's request for a payment intent. Amount is
// in the smallest currency unit.
type PaymentRequest struct {
	Amount int64
	Email  string
	Phone  string
}

// PaymentService creates payment intents behind a circuit breaker.
type PaymentService struct {
	provider       payment.Provider
	breaker        *breaker.Breaker[*payment.Intent]
	currency       string
	publishableKey string
	logger         *slog.Logger
}

// NewPaymentService wraps provider with a breaker built from cfg. Declined
// requests do not count towards tripping it.
func NewPaymentService(provider payment.Provider, cfg breaker.Config, currency, publishableKey string, logger *slog.Logger) *PaymentService {
	cfg.Ignore = payment.IsDeclined
	return &PaymentService{
		provider:       provider,
		breaker:        breaker.New[*payment.Intent](cfg, logger),
		currency:       currency,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

// ProcessPayment creates a payment intent. Every processor failure is
// reported to the caller as a 400 with a message.
func (s *PaymentService) ProcessPayment(ctx context.Context, req PaymentRequest) (*payment.Intent, error) {
	intent, err := s.breaker.Execute(func() (*payment.Intent, error) {
		return s.provider.CreateIntent(ctx, payment.IntentRequest{
			Amount:   req.Amount,
			Currency: s.currency,
			Email:    req.Email,
			Phone:    req.Phone,
		})
	})
	if err != nil {
		var declined *payment.DeclinedError
		switch {
		case errors.As(err, &declined):
			s.logger.InfoContext(ctx, "payment intent declined",
				slog.String("provider", s.provider.Name()),
				slog.String("reason", declined.Message),
			)
			return nil, apperrors.InvalidInput(declined.Message)
		case errors.Is(err, breaker.ErrOpen):
			s.logger.WarnContext(ctx, "payment processor circuit open",
				slog.String("provider", s.provider.Name()),
			)
			return nil, apperrors.InvalidInput("Payment processor is temporarily unavailable")
		default:
			s.logger.ErrorContext(ctx, "payment intent failed",
				slog.String("provider", s.provider.Name()),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.InvalidInput("Payment processing failed")
		}
	}

	s.logger.InfoContext(ctx, "payment intent created",
		slog.String("provider", s.provider.Name()),
		slog.String("intent_id", intent.ID),
		slog.Int64("amount", req.Amount),
		slog.String("currency", s.currency),
	)
	return intent, nil
}

// PublishableKey is the processor key handed to browsers.
func (s *PaymentService) PublishableKey() string {
	return s.publishableKey
}
