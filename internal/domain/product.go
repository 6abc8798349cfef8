package domain

import (
	"encoding/json"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/validator"
)

// Image is a stored media reference.
type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Brand of a product. Every product carries one, falling back to
// "Generic Brand" with a placeholder logo.
type Brand struct {
	Name string `json:"name"`
	Logo Image  `json:"logo"`
}

// Specification is one key/value row of a product's spec sheet.
type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Product is a catalog entry together with its reviews. Ratings and
// NumOfReviews are derived from Reviews and only change through the review
// methods in review.go.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	Price          float64         `json:"price" validate:"gte=0"`
	CuttedPrice    float64         `json:"cuttedPrice" validate:"gte=0"`
	Category       string          `json:"category" validate:"required"`
	Stock          int             `json:"stock" validate:"gte=0,lte=9999"`
	Images         []Image         `json:"images"`
	Brand          Brand           `json:"brand"`
	Specifications []Specification `json:"specifications"`
	Ratings        float64         `json:"ratings"`
	NumOfReviews   int             `json:"numOfReviews"`
	Reviews        []Review        `json:"reviews"`
	User           string          `json:"user"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Validate checks the stored-record constraints: required text fields,
// non-negative prices and a stock between 0 and 9999.
func (p *Product) Validate() error {
	return validator.Validate(p)
}

// Clone returns a deep copy of p.
func (p *Product) Clone() *Product {
	cp := *p
	cp.Images = append([]Image(nil), p.Images...)
	cp.Specifications = append([]Specification(nil), p.Specifications...)
	cp.Reviews = append([]Review(nil), p.Reviews...)
	return &cp
}

// MarshalJSON writes nil collections as empty arrays.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	out := plain(p)
	if out.Images == nil {
		out.Images = []Image{}
	}
	if out.Specifications == nil {
		out.Specifications = []Specification{}
	}
	if out.Reviews == nil {
		out.Reviews = []Review{}
	}
	return json.Marshal(out)
}
