// Command seed populates a running catalog service with sample products and
// reviews through its HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/internal/auth"
	pkgconfig "github.com/0311869uaslp-a11y/Market-pro/pkg/config"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/httpclient"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

type seedConfig struct {
	APIURL    string        `env:"CATALOG_API_URL" envDefault:"http://localhost:4000"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	Reviewers int           `env:"SEED_REVIEWERS" envDefault:"3"`
	Timeout   time.Duration `env:"SEED_TIMEOUT" envDefault:"2m"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}

	var cfg seedConfig
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	s := &seeder{
		client:    httpclient.New(cfg.APIURL, httpclient.DefaultConfig()),
		tokens:    auth.NewJWTManager(cfg.JWTSecret),
		reviewers: cfg.Reviewers,
		logger:    log,
	}

	res, err := s.run(ctx, sampleProducts)
	if err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete",
		slog.Int("products", res.products),
		slog.Int("reviews", res.reviews),
		slog.Int("failures", res.failures),
	)
}
