package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_DisabledInstallsPropagatorOnly(t *testing.T) {
	provider := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, provider, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSampler(t *testing.T) {
	assert.Contains(t, Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
	assert.Contains(t, Sampler(7).Description(), "AlwaysOnSampler")
}
