package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/service"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

type listProductsResponse struct {
	Success bool `json:"success"`
	*service.ProductList
}

type productsResponse struct {
	Success  bool             `json:"success"`
	Products []domain.Product `json:"products"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

// ListProducts handles GET /api/v1/products with keyword, filter and page
// query parameters.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAllProducts(r.Context(), r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listProductsResponse{Success: true, ProductList: list})
}

// ListAllProducts handles GET /api/v1/products/all.
func (h *ProductHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productsResponse{Success: true, Products: products})
}

// ListAdminProducts handles GET /api/v1/admin/products.
func (h *ProductHandler) ListAdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAdminProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productsResponse{Success: true, Products: products})
}

// GetProduct handles GET /api/v1/product/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.service.GetProductDetails(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productResponse{Success: true, Product: p})
}

// CreateProduct handles POST /api/v1/admin/product/new.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.service.CreateProduct(r.Context(), in, actor(r))
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, valErr)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, productResponse{Success: true, Product: p})
}

// UpdateProduct handles PUT /api/v1/admin/product/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var in domain.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id.String(), in, actor(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, productResponse{Success: true, Product: p})
}

// DeleteProduct handles DELETE /api/v1/admin/product/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}
