// Package memory provides a process-local catalog store for development
// and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// CatalogRepository keeps products in insertion order. Every read and write
// goes through a deep copy so callers never share state with the store.
type CatalogRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Product
	order []string
	now   func() time.Time
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository returns an empty store.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		byID: make(map[string]*domain.Product),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *CatalogRepository) Count(_ context.Context, q query.Query) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, id := range r.order {
		if q.Matches(r.byID[id]) {
			n++
		}
	}
	return n, nil
}

func (r *CatalogRepository) Find(_ context.Context, q query.Query) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Product{}
	skipped := 0
	for _, id := range r.order {
		p := r.byID[id]
		if !q.Matches(p) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, *p.Clone())
	}
	return out, nil
}

func (r *CatalogRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("product")
	}
	return p.Clone(), nil
}

func (r *CatalogRepository) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return apperrors.InvalidInput("duplicate product id " + p.ID)
	}
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

// Update replaces the catalog fields of the stored product. Reviews and
// their aggregates are kept from the stored copy.
func (r *CatalogRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[p.ID]
	if !ok {
		return apperrors.NotFound("product")
	}
	p.UpdatedAt = r.now()
	p.CreatedAt = stored.CreatedAt

	next := p.Clone()
	next.Reviews = stored.Reviews
	next.Ratings = stored.Ratings
	next.NumOfReviews = stored.NumOfReviews
	r.byID[p.ID] = next
	return nil
}

func (r *CatalogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("product")
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// MutateReviews runs fn on a copy under the write lock and stores the
// result only when fn succeeds.
func (r *CatalogRepository) MutateReviews(_ context.Context, id string, fn repository.ReviewMutation) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("product")
	}
	p := stored.Clone()
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = r.now()
	r.byID[id] = p.Clone()
	return p, nil
}
