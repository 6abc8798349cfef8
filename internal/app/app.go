package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/0311869uaslp-a11y/Market-pro/internal/auth"
	"github.com/0311869uaslp-a11y/Market-pro/internal/cache"
	"github.com/0311869uaslp-a11y/Market-pro/internal/config"
	"github.com/0311869uaslp-a11y/Market-pro/internal/domain"
	"github.com/0311869uaslp-a11y/Market-pro/internal/event"
	handler "github.com/0311869uaslp-a11y/Market-pro/internal/handler/http"
	"github.com/0311869uaslp-a11y/Market-pro/internal/payment"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository/memory"
	"github.com/0311869uaslp-a11y/Market-pro/internal/repository/postgres"
	"github.com/0311869uaslp-a11y/Market-pro/internal/service"
	"github.com/0311869uaslp-a11y/Market-pro/migrations"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/breaker"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/database"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/health"
	pkgkafka "github.com/0311869uaslp-a11y/Market-pro/pkg/kafka"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/middleware"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "catalog-service"

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	tracing    tracing.Shutdown
	stopLimit  context.CancelFunc
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a.tracing, err = tracing.Init(initCtx, cfg.Tracing(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(pkgkafka.Collectors()...)
	reg.MustRegister(breaker.Collectors()...)

	healthHandler := health.NewHandler(2 * time.Second)

	// Catalog store.
	var repo repository.CatalogRepository
	switch cfg.StoreBackend {
	case config.StorePostgres:
		a.pool, err = database.NewPostgresPool(initCtx, cfg.Postgres(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err = database.RunMigrations(initCtx, a.pool, migrations.FS, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
		reg.MustRegister(database.NewPoolCollector(a.pool, ServiceName))
		healthHandler.Register("postgres", a.pool.Ping)
		repo = postgres.NewCatalogRepository(a.pool)
	default:
		logger.Warn("using in-memory catalog store; data is lost on restart")
		repo = memory.NewCatalogRepository()
	}

	// Product detail cache.
	var productCache service.ProductCache = cache.Nop{}
	if cfg.RedisEnabled {
		a.rdb, err = database.NewRedisClient(initCtx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		rdb := a.rdb
		healthHandler.RegisterOptional("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		productCache = cache.NewProductCache(a.rdb, cfg.ProductCacheTTLDuration())
	}

	// Domain events.
	var events service.EventPublisher = event.Nop{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.ProducerConfig{Brokers: cfg.KafkaBrokers}, logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
		events = event.NewProducer(a.producer)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Payments.
	var provider payment.Provider = payment.Mock{}
	if cfg.PaymentProvider == config.PaymentStripe {
		provider = payment.NewStripe(cfg.StripeSecretKey)
	}

	normalizer := domain.NewNormalizer(domain.Placeholders{
		ProductImageURL: cfg.DefaultProductImageURL,
		BrandLogoURL:    cfg.DefaultBrandLogoURL,
	})
	catalog := service.NewCatalogService(repo, normalizer, events, productCache, logger)
	payments := service.NewPaymentService(provider, cfg.PaymentBreaker(), cfg.PaymentCurrency, cfg.StripeAPIKey, logger)
	tokens := auth.NewJWTManager(cfg.JWTSecret)

	var limit func(http.Handler) http.Handler
	if cfg.RateLimitRPS > 0 {
		var limitCtx context.Context
		limitCtx, a.stopLimit = context.WithCancel(context.Background())
		limit = middleware.RateLimit(limitCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Catalog:      catalog,
		Payments:     payments,
		Tokens:       tokens.Validate,
		Health:       healthHandler,
		Metrics:      middleware.NewHTTPMetrics(reg, ServiceName),
		Gatherer:     reg,
		ServiceName:  ServiceName,
		MaxBodyBytes: cfg.MaxBodyBytes,
		RateLimit:    limit,
		Logger:       logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("catalog service initialized",
		slog.String("store", cfg.StoreBackend),
		slog.Bool("cache", cfg.RedisEnabled),
		slog.Bool("events", cfg.KafkaEnabled),
		slog.String("payment_provider", provider.Name()),
		slog.Any("checks", healthHandler.Names()),
	)
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.close()
	if a.tracing != nil {
		if err := a.tracing(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// close releases the backing clients that were opened.
func (a *App) close() {
	if a.stopLimit != nil {
		a.stopLimit()
		a.stopLimit = nil
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
