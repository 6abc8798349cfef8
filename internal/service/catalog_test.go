package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/0311869uaslp-a11y/Market-pro/internal/cache"
	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/query"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/validator"
)

func newTestService(repo *mockCatalogRepository, events *mockEvents, c ProductCache) *CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	return NewCatalogService(repo, newTestNormalizer(), events, c, newTestLogger())
}

func isUnfiltered(q query.Query) bool {
	return q.Keyword == "" && len(q.Conditions) == 0 && q.Limit == 0 && q.Skip == 0
}

// --- GetAllProducts ---

func TestGetAllProducts_CountsBeforePaging(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)

	filtered := mock.MatchedBy(func(q query.Query) bool {
		return q.Keyword == "phone" && len(q.Conditions) == 1 && q.Limit == 0
	})
	paged := mock.MatchedBy(func(q query.Query) bool {
		return q.Keyword == "phone" && q.Skip == 12 && q.Limit == 12
	})
	repo.On("Count", mock.Anything, mock.MatchedBy(isUnfiltered)).Return(30, nil)
	repo.On("Count", mock.Anything, filtered).Return(14, nil)
	repo.On("Find", mock.Anything, paged).Return([]domain.Product{*storedProduct()}, nil)

	params := url.Values{"keyword": {"phone"}, "category": {"Mobiles"}, "page": {"2"}}
	list, err := svc.GetAllProducts(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 30, list.ProductsCount)
	assert.Equal(t, 14, list.FilteredProductsCount)
	assert.Equal(t, 12, list.ResultPerPage)
	assert.Len(t, list.Products, 1)
	repo.AssertExpectations(t)
}

func TestGetAllProducts_BadNumericBound(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)

	_, err := svc.GetAllProducts(context.Background(), url.Values{"price[gte]": {"cheap"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestGetAllProducts_RepositoryError(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

	_, err := svc.GetAllProducts(context.Background(), url.Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count products")
}

func TestGetProducts_Unfiltered(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)
	repo.On("Find", mock.Anything, mock.MatchedBy(isUnfiltered)).
		Return([]domain.Product{*storedProduct(), *storedProduct()}, nil)

	products, err := svc.GetAdminProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

// --- GetProductDetails ---

func TestGetProductDetails_CacheHit(t *testing.T) {
	repo := new(mockCatalogRepository)
	c := new(mockCache)
	svc := newTestService(repo, new(mockEvents), c)

	p := storedProduct()
	c.On("Get", mock.Anything, p.ID).Return(p, int64(0), nil)

	got, err := svc.GetProductDetails(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Same(t, p, got)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProductDetails_MissFillsCache(t *testing.T) {
	repo := new(mockCatalogRepository)
	c := new(mockCache)
	svc := newTestService(repo, new(mockEvents), c)

	p := storedProduct()
	c.On("Get", mock.Anything, p.ID).Return(nil, int64(3), nil)
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	c.On("Set", mock.Anything, p, int64(3)).Return(nil)

	got, err := svc.GetProductDetails(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone X", got.Name)
	c.AssertExpectations(t)
}

func TestGetProductDetails_CacheErrorFallsThrough(t *testing.T) {
	repo := new(mockCatalogRepository)
	c := new(mockCache)
	svc := newTestService(repo, new(mockEvents), c)

	p := storedProduct()
	c.On("Get", mock.Anything, p.ID).Return(nil, int64(0), errors.New("redis down"))
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	c.On("Set", mock.Anything, p, int64(0)).Return(errors.New("redis down"))

	got, err := svc.GetProductDetails(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestGetProductDetails_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("product"))

	_, err := svc.GetProductDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Product Not Found", appErr.Message)
}

// --- CreateProduct ---

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockCatalogRepository)
	events := new(mockEvents)
	svc := newTestService(repo, events, nil)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	events.On("PublishProductCreated", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	in := domain.ProductInput{
		Name:        strPtr("Lamp"),
		Description: strPtr("Desk lamp"),
		Price:       num(25),
		Category:    strPtr("Home"),
		Stock:       num(4),
	}
	p, err := svc.CreateProduct(context.Background(), in, "admin-1")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "admin-1", p.User)
	assert.Equal(t, domain.DefaultBrandName, p.Brand.Name)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://placeholder/product.png", p.Images[0].URL)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateProduct_MissingField(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)

	_, err := svc.CreateProduct(context.Background(), domain.ProductInput{
		Name:        strPtr("Lamp"),
		Description: strPtr("Desk lamp"),
		Price:       num(0),
	}, "admin-1")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Please provide price", appErr.Message)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_StockOutOfRange(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)

	_, err := svc.CreateProduct(context.Background(), domain.ProductInput{
		Name:        strPtr("Lamp"),
		Description: strPtr("Desk lamp"),
		Price:       num(25),
		Category:    strPtr("Home"),
		Stock:       num(10000),
	}, "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	var valErr *validator.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, map[string]string{"stock": "must be less than or equal to 9999"}, valErr.Fields())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_EventFailureDoesNotFail(t *testing.T) {
	repo := new(mockCatalogRepository)
	events := new(mockEvents)
	svc := newTestService(repo, events, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("PublishProductCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := svc.CreateProduct(context.Background(), domain.ProductInput{
		Name:        strPtr("Lamp"),
		Description: strPtr("Desk lamp"),
		Price:       num(25),
		Category:    strPtr("Home"),
		Stock:       num(4),
	}, "admin-1")
	assert.NoError(t, err)
}

// --- UpdateProduct ---

func TestUpdateProduct_AppliesPatchAndInvalidates(t *testing.T) {
	repo := new(mockCatalogRepository)
	events := new(mockEvents)
	c := new(mockCache)
	svc := newTestService(repo, events, c)

	p := storedProduct()
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Update", mock.Anything, p).Return(nil)
	c.On("Invalidate", mock.Anything, p.ID).Return(nil)
	events.On("PublishProductUpdated", mock.Anything, p).Return(nil)

	got, err := svc.UpdateProduct(context.Background(), p.ID, domain.ProductInput{
		Name:  strPtr("Phone X2"),
		Price: num(0),
		Stock: num(3),
	}, "admin-2")
	require.NoError(t, err)

	assert.Equal(t, "Phone X2", got.Name)
	assert.Equal(t, float64(500), got.Price, "zero price is ignored")
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, "admin-2", got.User)
	c.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestUpdateProduct_ValidationFailureIsUpstream(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)

	p := storedProduct()
	repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := svc.UpdateProduct(context.Background(), p.ID, domain.ProductInput{Stock: num(12000)}, "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestService(repo, new(mockEvents), nil)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("product"))

	_, err := svc.UpdateProduct(context.Background(), "missing", domain.ProductInput{}, "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- DeleteProduct ---

func TestDeleteProduct(t *testing.T) {
	repo := new(mockCatalogRepository)
	events := new(mockEvents)
	c := new(mockCache)
	svc := newTestService(repo, events, c)

	repo.On("Delete", mock.Anything, "p-1").Return(nil)
	c.On("Invalidate", mock.Anything, "p-1").Return(errors.New("redis down"))
	events.On("PublishProductDeleted", mock.Anything, "p-1").Return(nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), "p-1"))
	events.AssertExpectations(t)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	events := new(mockEvents)
	svc := newTestService(repo, events, nil)
	repo.On("Delete", mock.Anything, "p-1").Return(apperrors.NotFound("product"))

	err := svc.DeleteProduct(context.Background(), "p-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	events.AssertNotCalled(t, "PublishProductDeleted", mock.Anything, mock.Anything)
}
