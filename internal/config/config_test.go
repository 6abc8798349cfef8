package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.HTTPPort)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, PaymentMock, cfg.PaymentProvider)
	assert.Equal(t, "inr", cfg.PaymentCurrency)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTLDuration())
	assert.Contains(t, cfg.DefaultProductImageURL, "photo-1505740420928")
	assert.Contains(t, cfg.DefaultBrandLogoURL, "photo-1567446537710")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "8080")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DB_MAX_CONN_LIFETIME_MINUTES", "5")
	t.Setenv("LOG_SLOW_QUERY_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.Postgres().MaxConnLifetime)
	assert.Zero(t, cfg.SlowQueryThreshold())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port", map[string]string{"CATALOG_HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"backend", map[string]string{"STORE_BACKEND": "mongo"}, "STORE_BACKEND"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
		{"rate limit burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST"},
		{"stripe key", map[string]string{"PAYMENT_PROVIDER": "stripe"}, "STRIPE_SECRET_KEY"},
		{"provider", map[string]string{"PAYMENT_PROVIDER": "paypal"}, "PAYMENT_PROVIDER"},
		{"not a number", map[string]string{"CATALOG_HTTP_PORT": "abc"}, "load catalog config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog", cfg.Tracing("catalog").ServiceName)
	assert.Equal(t, "payment-mock", cfg.PaymentBreaker().Name)
	assert.Equal(t, "localhost:6379", cfg.Redis().Addr)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout())
}
