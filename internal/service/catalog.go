package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// EventPublisher announces catalog changes. Failures are logged and never
// fail the operation that triggered them.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, p *domain.Product) error
	PublishProductUpdated(ctx context.Context, p *domain.Product) error
	PublishProductDeleted(ctx context.Context, productID string) error
	PublishReviewSubmitted(ctx context.Context, p *domain.Product, r domain.Review, created bool) error
	PublishReviewDeleted(ctx context.Context, p *domain.Product, reviewID string) error
}

// ProductCache holds product details by ID. Get returns nil on a miss along
// with a version that Set uses to drop fills overtaken by an Invalidate.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, int64, error)
	Set(ctx context.Context, p *domain.Product, version int64) error
	Invalidate(ctx context.Context, id string) error
}

// ProductList is one page of a catalog listing.
type ProductList struct {
	Products              []domain.Product `json:"products"`
	ProductsCount         int              `json:"productsCount"`
	ResultPerPage         int              `json:"resultPerPage"`
	FilteredProductsCount int              `json:"filteredProductsCount"`
}

// CatalogService implements product listing and administration.
type CatalogService struct {
	repo       repository.CatalogRepository
	normalizer *domain.Normalizer
	events     EventPublisher
	cache      ProductCache
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	repo repository.CatalogRepository,
	normalizer *domain.Normalizer,
	events EventPublisher,
	cache ProductCache,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:       repo,
		normalizer: normalizer,
		events:     events,
		cache:      cache,
		logger:     logger,
	}
}

// GetAllProducts runs a keyword, filter and page query. The filtered count
// is taken before pagination is applied.
func (s *CatalogService) GetAllProducts(ctx context.Context, params url.Values) (*ProductList, error) {
	q, page, err := query.Parse(params)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, query.Query{})
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	filtered, err := s.repo.Count(ctx, q.Clone())
	if err != nil {
		return nil, fmt.Errorf("count filtered products: %w", err)
	}

	q.Paginate(page, query.PageSize)
	products, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	return &ProductList{
		Products:              products,
		ProductsCount:         total,
		ResultPerPage:         query.PageSize,
		FilteredProductsCount: filtered,
	}, nil
}

// GetProducts returns the whole catalog without filtering or paging.
func (s *CatalogService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.Find(ctx, query.Query{})
	if err != nil {
		return nil, fmt.Errorf("find all products: %w", err)
	}
	return products, nil
}

// GetAdminProducts is GetProducts for the admin listing.
func (s *CatalogService) GetAdminProducts(ctx context.Context) ([]domain.Product, error) {
	return s.GetProducts(ctx)
}

// GetProductDetails returns one product with its reviews, consulting the
// cache first.
func (s *CatalogService) GetProductDetails(ctx context.Context, id string) (*domain.Product, error) {
	cached, version, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "product cache read failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.cache.Set(ctx, p, version); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	return p, nil
}

// CreateProduct normalizes the payload into a new product owned by actor.
func (s *CatalogService) CreateProduct(ctx context.Context, in domain.ProductInput, actor string) (*domain.Product, error) {
	p, err := s.normalizer.NewProduct(in, actor)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, apperrors.Validation(err)
	}
	s.logSpecFallbacks(ctx, in)

	p.ID = uuid.New().String()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.Int("images", len(p.Images)),
		slog.String("user_id", actor),
	)
	return p, nil
}

// UpdateProduct applies a partial update. A product that fails schema
// validation afterwards is reported as an upstream failure.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in domain.ProductInput, actor string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	s.normalizer.ApplyUpdate(p, in, actor)
	if err := p.Validate(); err != nil {
		return nil, apperrors.Upstream(err.Error(), err)
	}
	s.logSpecFallbacks(ctx, in)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, id)

	if err := s.events.PublishProductUpdated(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", p.ID),
		slog.String("user_id", actor),
	)
	return p, nil
}

// DeleteProduct removes a product and its reviews.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, id)

	if err := s.events.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate product cache",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CatalogService) logSpecFallbacks(ctx context.Context, in domain.ProductInput) {
	if in.Specifications == nil {
		return
	}
	for i, e := range in.Specifications.Entries {
		if e.Fallback != domain.FallbackNone {
			s.logger.WarnContext(ctx, "specification stored as feature",
				slog.Int("index", i),
				slog.String("reason", string(e.Fallback)),
			)
		}
	}
}
