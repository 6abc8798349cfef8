package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository"
)

// --- Mock Repository ---

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) Count(ctx context.Context, q query.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockCatalogRepository) Find(ctx context.Context, q query.Query) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCatalogRepository) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCatalogRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogRepository) MutateReviews(ctx context.Context, id string, fn repository.ReviewMutation) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := args.Get(0).(*domain.Product).Clone()
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Mock Events ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishProductCreated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockEvents) PublishProductUpdated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockEvents) PublishProductDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEvents) PublishReviewSubmitted(ctx context.Context, p *domain.Product, r domain.Review, created bool) error {
	return m.Called(ctx, p, r, created).Error(0)
}

func (m *mockEvents) PublishReviewDeleted(ctx context.Context, p *domain.Product, reviewID string) error {
	return m.Called(ctx, p, reviewID).Error(0)
}

// --- Mock Cache ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id string) (*domain.Product, int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, p *domain.Product, version int64) error {
	return m.Called(ctx, p, version).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestNormalizer() *domain.Normalizer {
	n := domain.NewNormalizer(domain.Placeholders{
		ProductImageURL: "https://placeholder/product.png",
		BrandLogoURL:    "https://placeholder/logo.png",
	})
	n.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	return n
}

func strPtr(s string) *string { return &s }

func num(v float64) *domain.Number { return &domain.Number{Value: v, Truthy: v != 0} }

func storedProduct() *domain.Product {
	return &domain.Product{
		ID:          "11111111-1111-1111-1111-111111111111",
		Name:        "Phone X",
		Description: "A phone",
		Price:       500,
		CuttedPrice: 600,
		Category:    "Mobiles",
		Stock:       10,
		Images:      []domain.Image{{PublicID: "product_1_0", URL: "https://img/1.png"}},
		Brand: domain.Brand{
			Name: "Acme",
			Logo: domain.Image{PublicID: "brand_1", URL: "https://img/acme.png"},
		},
		Specifications: []domain.Specification{{Key: "RAM", Value: "8GB"}},
		User:           "admin-1",
		Reviews:        []domain.Review{},
	}
}
