package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/0311869uaslp-a11y/Market-pro/internal/app"
	"github.com/0311869uaslp-a11y/Market-pro/internal/config"
	pkgconfig "github.com/0311869uaslp-a11y/Market-pro/pkg/config"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/logger"
)

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(app.ServiceName, cfg.LogLevel)
	log.Info("starting catalog service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("store", cfg.StoreBackend),
	)

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("catalog service stopped")
}
