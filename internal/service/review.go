package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// CreateProductReview records the user's review, replacing a previous one
// by the same user.
func (s *CatalogService) CreateProductReview(ctx context.Context, productID string, sub domain.ReviewSubmission) error {
	var (
		stored  domain.Review
		created bool
	)
	p, err := s.repo.MutateReviews(ctx, productID, func(p *domain.Product) error {
		stored, created = p.UpsertReview(sub)
		return nil
	})
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	s.invalidate(ctx, productID)

	if err := s.events.PublishReviewSubmitted(ctx, p, stored, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.String("product_id", productID),
			slog.String("review_id", stored.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("product_id", productID),
		slog.String("review_id", stored.ID),
		slog.Bool("created", created),
		slog.Float64("ratings", p.Ratings),
		slog.Int("num_of_reviews", p.NumOfReviews),
	)
	return nil
}

// GetProductReviews returns a product's reviews in stored order.
func (s *CatalogService) GetProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	p, err := s.GetProductDetails(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Reviews == nil {
		return []domain.Review{}, nil
	}
	return p.Reviews, nil
}

// DeleteReview removes one review and recomputes the aggregates. An unknown
// review ID leaves the reviews unchanged and still succeeds.
func (s *CatalogService) DeleteReview(ctx context.Context, productID, reviewID string) error {
	var removed bool
	p, err := s.repo.MutateReviews(ctx, productID, func(p *domain.Product) error {
		removed = p.RemoveReview(reviewID)
		if err := p.Validate(); err != nil {
			return apperrors.Upstream(err.Error(), err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !removed {
		s.logger.DebugContext(ctx, "review not present",
			slog.String("product_id", productID),
			slog.String("review_id", reviewID),
		)
		return nil
	}
	s.invalidate(ctx, productID)

	if err := s.events.PublishReviewDeleted(ctx, p, reviewID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("product_id", productID),
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("product_id", productID),
		slog.String("review_id", reviewID),
		slog.Int("num_of_reviews", p.NumOfReviews),
	)
	return nil
}
