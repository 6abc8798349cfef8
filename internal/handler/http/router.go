package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0311869uaslp-a11y/Market-pro/internal/service"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/health"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/middleware"
)

// RoleAdmin may manage products and delete reviews.
const RoleAdmin = "admin"

// RouterDeps collects what NewRouter wires together. Metrics, Gatherer and
// RateLimit are optional.
type RouterDeps struct {
	Catalog      *service.CatalogService
	Payments     *service.PaymentService
	Tokens       middleware.TokenValidator
	Health       *health.Handler
	Metrics      *middleware.HTTPMetrics
	Gatherer     prometheus.Gatherer
	ServiceName  string
	MaxBodyBytes int64
	RateLimit    func(http.Handler) http.Handler
	Logger       *slog.Logger
}

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogging(d.Logger))
	r.Use(middleware.Tracing(d.ServiceName))
	r.Use(middleware.RequestLogger(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	if d.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(d.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteFailure(w, http.StatusNotFound, "Route Not Found")
	})

	// Operational endpoints
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	products := NewProductHandler(d.Catalog, d.Logger)
	reviews := NewReviewHandler(d.Catalog, d.Logger)
	payments := NewPaymentHandler(d.Payments, d.Logger)

	authenticated := func(r chi.Router) {
		r.Use(middleware.Auth(d.Tokens))
		r.Use(middleware.RequestLogger(d.Logger))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		r.Get("/products", products.ListProducts)
		r.Get("/products/all", products.ListAllProducts)
		r.Get("/product/{id}", products.GetProduct)
		r.Get("/reviews", reviews.ListReviews)

		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Put("/review", reviews.CreateReview)
			r.Post("/payment/process", payments.ProcessPayment)
			r.Get("/stripeapikey", payments.GetAPIKey)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(RoleAdmin))

				r.Get("/admin/products", products.ListAdminProducts)
				r.Post("/admin/product/new", products.CreateProduct)
				r.Put("/admin/product/{id}", products.UpdateProduct)
				r.Delete("/admin/product/{id}", products.DeleteProduct)
				r.Delete("/reviews", reviews.DeleteReview)
			})
		})
	})

	return r
}
