package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/internal/auth"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httpclient"
)

const tokenTTL = time.Hour

type spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type productDef struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	CuttedPrice    float64  `json:"cuttedPrice,omitempty"`
	Category       string   `json:"category"`
	Stock          int      `json:"stock"`
	Images         []string `json:"images,omitempty"`
	BrandName      string   `json:"brandname,omitempty"`
	Logo           string   `json:"logo,omitempty"`
	Specifications []spec   `json:"specifications,omitempty"`
}

var sampleProducts = []productDef{
	{
		Name: "Noise Cancelling Headphones", Description: "Over-ear wireless headphones with 30 hour battery",
		Price: 7999, CuttedPrice: 9999, Category: "Electronics", Stock: 25, BrandName: "Sonora",
		Images:         []string{"https://images.example.com/headphones-1.jpg", "https://images.example.com/headphones-2.jpg"},
		Specifications: []spec{{Key: "Battery", Value: "30h"}, {Key: "Bluetooth", Value: "5.3"}},
	},
	{
		Name: "Mechanical Keyboard", Description: "Tenkeyless keyboard with hot-swappable switches",
		Price: 4599, Category: "Electronics", Stock: 40, BrandName: "Keyforge",
		Images: []string{"https://images.example.com/keyboard.jpg"},
	},
	{
		Name: "Trail Running Shoes", Description: "Lightweight shoes with a grippy outsole",
		Price: 3499, CuttedPrice: 4299, Category: "Footwear", Stock: 60, BrandName: "Stride",
		Specifications: []spec{{Key: "Drop", Value: "6mm"}},
	},
	{
		Name: "Cast Iron Skillet", Description: "Pre-seasoned 26cm skillet",
		Price: 1899, Category: "Home", Stock: 15,
	},
	{
		Name: "Cotton Hoodie", Description: "Heavyweight hoodie in organic cotton",
		Price: 1499, CuttedPrice: 1999, Category: "Clothing", Stock: 80, BrandName: "Loomwell",
		Logo: "https://images.example.com/loomwell-logo.png",
	},
	{
		Name: "Smart Watch", Description: "Fitness tracking watch with AMOLED display",
		Price: 12999, Category: "Electronics", Stock: 10, BrandName: "Pulse",
		Images: []string{"https://images.example.com/watch.jpg"},
	},
}

var sampleComments = []string{
	"Exactly as described.",
	"Good value for the price.",
	"Would buy again.",
	"Arrived quickly and works well.",
}

type result struct {
	products int
	reviews  int
	failures int
}

type seeder struct {
	client    *httpclient.Client
	tokens    *auth.JWTManager
	reviewers int
	logger    *slog.Logger
}

type createdProduct struct {
	Product struct {
		ID string `json:"id"`
	} `json:"product"`
}

// run creates every product as an admin and has each reviewer rate it.
// Failures on individual items are logged and counted; only a failure to
// mint tokens or a cancelled context aborts the run.
func (s *seeder) run(ctx context.Context, products []productDef) (result, error) {
	var res result

	admin, err := s.tokens.Issue("seed-admin", "Seed Admin", "admin@seed.local", "admin", tokenTTL)
	if err != nil {
		return res, fmt.Errorf("issue admin token: %w", err)
	}

	reviewers := make([]string, 0, s.reviewers)
	for i := 0; i < s.reviewers; i++ {
		tok, err := s.tokens.Issue(
			fmt.Sprintf("seed-user-%d", i+1),
			fmt.Sprintf("Seed User %d", i+1),
			fmt.Sprintf("user%d@seed.local", i+1),
			"user", tokenTTL,
		)
		if err != nil {
			return res, fmt.Errorf("issue reviewer token: %w", err)
		}
		reviewers = append(reviewers, tok)
	}

	for i, def := range products {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var created createdProduct
		if err := s.client.DoJSON(ctx, http.MethodPost, "/api/v1/admin/product/new", admin, def, &created); err != nil {
			res.failures++
			s.logger.WarnContext(ctx, "failed to create product",
				slog.String("name", def.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.products++
		s.logger.InfoContext(ctx, "product created",
			slog.String("product_id", created.Product.ID),
			slog.String("name", def.Name),
		)

		for j, tok := range reviewers {
			review := map[string]any{
				"productId": created.Product.ID,
				"rating":    3 + (i+j)%3,
				"comment":   sampleComments[(i+j)%len(sampleComments)],
			}
			if err := s.client.DoJSON(ctx, http.MethodPut, "/api/v1/review", tok, review, nil); err != nil {
				res.failures++
				s.logger.WarnContext(ctx, "failed to submit review",
					slog.String("product_id", created.Product.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			res.reviews++
		}
	}
	return res, nil
}
