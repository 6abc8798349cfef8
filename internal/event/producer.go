package event

import (
	"context"
	"fmt"

	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	pkgkafka "github.com/0311869uaslp-a11y/Market-pro/pkg/kafka"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated  = "catalog.product.created"
	TopicProductUpdated  = "catalog.product.updated"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicReviewSubmitted = "catalog.review.submitted"
	TopicReviewDeleted   = "catalog.review.deleted"
)

const (
	AggregateTypeProduct = "product"
	SourceCatalogService = "catalog-service"
)

// ProductData is the payload of product created and updated events.
type ProductData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	CuttedPrice float64 `json:"cutted_price"`
	Stock       int     `json:"stock"`
	User        string  `json:"user"`
}

// ProductDeletedData is the payload of a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewData is the payload of review events. Ratings and NumOfReviews are
// the product aggregates after the change.
type ReviewData struct {
	ProductID    string  `json:"product_id"`
	ReviewID     string  `json:"review_id"`
	UserID       string  `json:"user_id,omitempty"`
	Rating       int     `json:"rating,omitempty"`
	Created      bool    `json:"created,omitempty"`
	Ratings      float64 `json:"ratings"`
	NumOfReviews int     `json:"num_of_reviews"`
}

// Publisher is the part of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog domain events.
type Producer struct {
	kafka Publisher
}

// NewProducer creates an event producer on top of a Kafka publisher.
func NewProducer(kafka Publisher) *Producer {
	return &Producer{kafka: kafka}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Brand:       p.Brand.Name,
		Price:       p.Price,
		CuttedPrice: p.CuttedPrice,
		Stock:       p.Stock,
		User:        p.User,
	}
}

func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	return p.publish(ctx, TopicProductDeleted, productID, ProductDeletedData{ID: productID})
}

// PublishReviewSubmitted announces a created or replaced review.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, product *domain.Product, review domain.Review, created bool) error {
	return p.publish(ctx, TopicReviewSubmitted, product.ID, ReviewData{
		ProductID:    product.ID,
		ReviewID:     review.ID,
		UserID:       review.User,
		Rating:       review.Rating,
		Created:      created,
		Ratings:      product.Ratings,
		NumOfReviews: product.NumOfReviews,
	})
}

func (p *Producer) PublishReviewDeleted(ctx context.Context, product *domain.Product, reviewID string) error {
	return p.publish(ctx, TopicReviewDeleted, product.ID, ReviewData{
		ProductID:    product.ID,
		ReviewID:     reviewID,
		Ratings:      product.Ratings,
		NumOfReviews: product.NumOfReviews,
	})
}

func (p *Producer) publish(ctx context.Context, topic, productID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, AggregateTypeProduct, productID, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Nop drops every event. It stands in when Kafka is disabled.
type Nop struct{}

func (Nop) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (Nop) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
func (Nop) PublishProductDeleted(context.Context, string) error { return nil }
func (Nop) PublishReviewSubmitted(context.Context, *domain.Product, domain.Review, bool) error {
	return nil
}
func (Nop) PublishReviewDeleted(context.Context, *domain.Product, string) error { return nil }
