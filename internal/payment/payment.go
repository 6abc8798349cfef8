// Package payment creates payment intents with an external processor.
package payment

import (
	"context"
	"errors"
)

// IntentRequest describes a payment the client is about to confirm. Amount
// is in the currency's smallest unit.
type IntentRequest struct {
	Amount   int64
	Currency string
	Email    string
	Phone    string
}

// Intent is a created payment intent. The client secret is handed to the
// browser to confirm the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider creates payment intents.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Name() string
}

// DeclinedError is a processor rejection caused by the request itself, such
// as an invalid amount. It does not indicate the processor is unhealthy.
type DeclinedError struct {
	Message string
	Err     error
}

func (e *DeclinedError) Error() string { return e.Message }

func (e *DeclinedError) Unwrap() error { return e.Err }

// IsDeclined reports whether err is a processor rejection of the request.
func IsDeclined(err error) bool {
	var d *DeclinedError
	return errors.As(err, &d)
}

func metadata(req IntentRequest) map[string]string {
	return map[string]string{
		"customer_email": req.Email,
		"phone":          req.Phone,
	}
}
