package repository

import (
	"context"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
)

// ReviewMutation edits a product's reviews in memory. Returning an error
// abandons the mutation.
type ReviewMutation func(p *domain.Product) error

// CatalogRepository persists products and their reviews. Lookups of a
// missing product return an error matching apperrors.ErrNotFound.
type CatalogRepository interface {
	// Count returns the number of products matching q, ignoring pagination.
	// A zero Query counts the whole catalog.
	Count(ctx context.Context, q query.Query) (int, error)

	// Find returns the products matching q in creation order, honouring
	// Skip and Limit, with their reviews loaded.
	Find(ctx context.Context, q query.Query) ([]domain.Product, error)

	// GetByID returns a product with its reviews.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Create inserts p and sets its timestamps.
	Create(ctx context.Context, p *domain.Product) error

	// Update overwrites the catalog fields of p. Reviews and the derived
	// rating fields are left as stored.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product together with its reviews.
	Delete(ctx context.Context, id string) error

	// MutateReviews loads the product, applies fn and stores the resulting
	// reviews and rating aggregates atomically. Concurrent mutations of the
	// same product are serialized.
	MutateReviews(ctx context.Context, id string, fn ReviewMutation) (*domain.Product, error)
}
