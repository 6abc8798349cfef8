package breaker

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDeclined = errors.New("card declined")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() Config {
	cfg := DefaultConfig("test-processor")
	cfg.MinRequests = 2
	cfg.Timeout = time.Hour
	cfg.Ignore = func(err error) bool { return errors.Is(err, errDeclined) }
	return cfg
}

func TestBreaker_TripsOnFailures(t *testing.T) {
	b := New[string](testConfig(), testLogger())
	boom := errors.New("processor unavailable")

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (string, error) { return "", boom })
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	_, err := b.Execute(func() (string, error) { called = true; return "ok", nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	b := New[string](testConfig(), testLogger())
	for i := 0; i < 5; i++ {
		_, err := b.Execute(func() (string, error) { return "", errDeclined })
		assert.ErrorIs(t, err, errDeclined)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())

	v, err := b.Execute(func() (string, error) { return "pi_secret", nil })
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", v)
}
