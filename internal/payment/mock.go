package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Mock approves every positive amount without contacting a processor.
type Mock struct{}

func (Mock) Name() string { return "mock" }

func (Mock) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, &DeclinedError{Message: "Invalid amount: must be greater than 0"}
	}
	id := "pi_mock_" + uuid.NewString()
	return &Intent{ID: id, ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()[:8])}, nil
}
