package http

import (
	"log/slog"
	"net/http"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/service"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/middleware"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.CatalogService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

type reviewsResponse struct {
	Success bool            `json:"success"`
	Reviews []domain.Review `json:"reviews"`
}

// CreateReview handles PUT /api/v1/review. The reviewer's identity comes
// from the token, never from the body.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in domain.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	productID, ok := httputil.ParseUUID(w, in.ProductID)
	if !ok {
		return
	}

	sub := domain.ReviewSubmission{Comment: in.Comment}
	if in.Rating != nil {
		sub.Rating = in.Rating.Int()
	}
	if c := middleware.ClaimsFromContext(r.Context()); c != nil {
		sub.UserID, sub.UserName = c.UserID, c.Name
	}

	if err := h.service.CreateProductReview(r.Context(), productID.String(), sub); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{Success: true})
}

// ListReviews handles GET /api/v1/reviews?id={productId}.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	reviews, err := h.service.GetProductReviews(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviewsResponse{Success: true, Reviews: reviews})
}

// DeleteReview handles DELETE /api/v1/reviews?id={reviewId}&productId={productId}.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r.URL.Query().Get("productId"))
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), productID.String(), r.URL.Query().Get("id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.SuccessResponse{Success: true})
}
