package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DSN returns the connection URL. Credentials are escaped.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

const (
	connectAttempts    = 3
	connectBaseBackoff = time.Second
	backoffJitter      = 0.25
)

// backoff returns base<<attempt with ±25% jitter: roughly 1s, 2s, 4s.
func backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := connectBaseBackoff << attempt
	jitter := time.Duration(float64(base) * backoffJitter * (2*rand.Float64() - 1)) // #nosec G404 -- retry jitter
	return base + jitter
}

// retry calls fn up to connectAttempts times, sleeping between failures.
// It gives up early when ctx is done or when retryable reports false.
func retry(ctx context.Context, logger *slog.Logger, what string, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) || attempt == connectAttempts-1 {
			break
		}
		wait := backoff(attempt)
		if logger != nil {
			logger.WarnContext(ctx, what+" failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", connectAttempts),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(wait):
		}
	}
	return err
}

// NewPostgresPool opens a pgx pool and verifies it with a ping, retrying
// transient failures. logger may be nil.
func NewPostgresPool(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	var pool *pgxpool.Pool
	always := func(error) bool { return true }
	err = retry(ctx, logger, "postgres connect", always, func() error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, nil
}
