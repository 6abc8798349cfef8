package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentLike struct {
	Amount int64  `json:"amount" validate:"gt=0"`
	Email  string `json:"email" validate:"omitempty,email"`
	Note   string `validate:"max=5"`
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(paymentLike{Amount: 100, Email: "a@b.co"}))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(paymentLike{Amount: 0, Email: "nope"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be greater than 0", fields["amount"])
	assert.Equal(t, "must be a valid email address", fields["email"])
}

func TestValidate_FallsBackToStructFieldName(t *testing.T) {
	err := Validate(paymentLike{Amount: 1, Note: "too long"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Note")
	assert.Contains(t, valErr.Error(), "Note must be at most 5")
}
