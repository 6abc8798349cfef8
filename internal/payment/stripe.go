package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v83"
)

type intentCreator func(context.Context, *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)

// Stripe creates payment intents through the Stripe API.
type Stripe struct {
	create intentCreator
}

// NewStripe returns a provider authenticated with secretKey.
func NewStripe(secretKey string) *Stripe {
	client := stripe.NewClient(secretKey)
	return &Stripe{create: client.V1PaymentIntents.Create}
}

func (s *Stripe) Name() string { return "stripe" }

// CreateIntent creates a payment intent carrying the customer's email and
// phone as metadata. Cancelling ctx aborts the API call.
func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Metadata: metadata(req),
	}
	pi, err := s.create(ctx, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 {
			return nil, &DeclinedError{Message: se.Msg, Err: err}
		}
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
