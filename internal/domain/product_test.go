package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *Product {
	return &Product{
		Name:        "Desk Lamp",
		Description: "LED lamp",
		Price:       49.5,
		CuttedPrice: 60,
		Category:    "lighting",
		Stock:       10,
	}
}

func TestProduct_Validate(t *testing.T) {
	require.NoError(t, validProduct().Validate())

	tests := []struct {
		name   string
		mutate func(*Product)
		field  string
	}{
		{"missing name", func(p *Product) { p.Name = "" }, "name"},
		{"negative price", func(p *Product) { p.Price = -1 }, "price"},
		{"stock too large", func(p *Product) { p.Stock = 10000 }, "stock"},
		{"negative stock", func(p *Product) { p.Stock = -2 }, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestProduct_CloneIsDeep(t *testing.T) {
	p := validProduct()
	p.Images = []Image{{PublicID: "a", URL: "https://x/a.png"}}
	p.UpsertReview(ReviewSubmission{UserID: "u1", Rating: 5})

	cp := p.Clone()
	cp.Images[0].URL = "changed"
	cp.Reviews[0].Rating = 1

	assert.Equal(t, "https://x/a.png", p.Images[0].URL)
	assert.Equal(t, 5, p.Reviews[0].Rating)
}

func TestProduct_MarshalJSONUsesEmptyArrays(t *testing.T) {
	b, err := json.Marshal(validProduct())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, []any{}, out["images"])
	assert.Equal(t, []any{}, out["reviews"])
	assert.Equal(t, []any{}, out["specifications"])
	assert.Equal(t, 60.0, out["cuttedPrice"])
	assert.Contains(t, out, "numOfReviews")
}
