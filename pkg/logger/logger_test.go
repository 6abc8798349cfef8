package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNew_TagsService(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "info", &buf)
	l.Info("hello")

	out := decodeLine(t, &buf)
	assert.Equal(t, "catalog", out["service"])
	assert.Equal(t, "hello", out["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "error", &buf)
	l.Info("dropped")
	assert.Zero(t, buf.Len())
}

func TestWithContext_AllFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "info", &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithCorrelationID(ctx, "corr-1")
	ctx = WithUserID(ctx, "user-1")

	WithContext(ctx, l).Info("enriched")

	out := decodeLine(t, &buf)
	assert.Equal(t, "corr-1", out["correlation_id"])
	assert.Equal(t, "user-1", out["user_id"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestWithContext_Empty(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog", "info", &buf)

	WithContext(context.Background(), l).Info("plain")

	out := decodeLine(t, &buf)
	assert.NotContains(t, out, "correlation_id")
	assert.NotContains(t, out, "user_id")
	assert.NotContains(t, out, "trace_id")
}

func TestFromContext(t *testing.T) {
	l := NewWithWriter("catalog", "info", &bytes.Buffer{})
	assert.Same(t, l, FromContext(NewContext(context.Background(), l)))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
