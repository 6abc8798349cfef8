package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/breaker"
	pkgconfig "github.com/0311869uaslp-a11y/Market-pro/pkg/config"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/database"
	"github.com/0311869uaslp-a11y/Market-pro/pkg/tracing"
)

// Storage backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Payment providers.
const (
	PaymentStripe = "stripe"
	PaymentMock   = "mock"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Version     string `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// HTTP server
	HTTPPort            int   `env:"CATALOG_HTTP_PORT" envDefault:"4000"`
	ShutdownTimeoutSecs int   `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"15"`
	MaxBodyBytes        int64 `env:"MAX_BODY_BYTES" envDefault:"10485760"`

	// Per-client request rate on /api/v1; 0 disables limiting.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`
	SlowQueryThresholdMs  int   `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis product cache
	RedisEnabled    bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	ProductCacheTTL int    `env:"PRODUCT_CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELInsecure   bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// Payments
	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"mock"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	StripeAPIKey    string `env:"STRIPE_API_KEY"`
	PaymentCurrency string `env:"PAYMENT_CURRENCY" envDefault:"inr"`

	// Placeholders used when a product or brand has no usable media.
	DefaultProductImageURL string `env:"DEFAULT_PRODUCT_IMAGE_URL" envDefault:"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"`
	DefaultBrandLogoURL    string `env:"DEFAULT_BRAND_LOGO_URL" envDefault:"https://images.unsplash.com/photo-1567446537710-0c5ff5a6ac32?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	c.StoreBackend = strings.ToLower(c.StoreBackend)
	switch c.StoreBackend {
	case StorePostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StorePostgres, StoreMemory, c.StoreBackend)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.RateLimitRPS < 0 || (c.RateLimitRPS > 0 && c.RateLimitBurst < 1) {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	c.PaymentProvider = strings.ToLower(c.PaymentProvider)
	switch c.PaymentProvider {
	case PaymentMock:
	case PaymentStripe:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be %q or %q, got %q", PaymentStripe, PaymentMock, c.PaymentProvider)
	}
	if c.PaymentCurrency == "" {
		return fmt.Errorf("PAYMENT_CURRENCY is required")
	}
	if c.ProductCacheTTL < 0 {
		return fmt.Errorf("PRODUCT_CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

// Postgres returns the pool settings for pkg/database.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the cache connection settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Addr:        c.RedisAddr,
		Password:    c.RedisPassword,
		DB:          c.RedisDB,
		DialTimeout: 3 * time.Second,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing(service string) tracing.Config {
	return tracing.Config{
		Enabled:        c.OTELEnabled,
		ServiceName:    service,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.OTELEndpoint,
		Insecure:       c.OTELInsecure,
		SampleRate:     c.OTELSampleRate,
	}
}

// PaymentBreaker returns the circuit breaker guarding the payment processor.
func (c *Config) PaymentBreaker() breaker.Config {
	return breaker.DefaultConfig("payment-" + c.PaymentProvider)
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

// ProductCacheTTLDuration is the Redis TTL for cached product details.
func (c *Config) ProductCacheTTLDuration() time.Duration {
	return time.Duration(c.ProductCacheTTL) * time.Second
}

// SlowQueryThreshold is the slow query log threshold. Zero disables it.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
