// Package breaker guards calls to external processors with a circuit breaker.
package breaker

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

// Config tunes when the breaker trips.
type Config struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears them.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
	// Ignore reports errors that should not count as failures, such as a
	// declined card.
	Ignore func(error) bool
}

// DefaultConfig trips after half of at least five calls fail and probes
// again after 30s.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var stateGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "circuit_breaker_state",
	Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
}, []string{"name"})

// Collectors returns the breaker metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{stateGauge}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}

// Breaker wraps calls returning T.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New builds a breaker. logger receives state transitions.
func New[T any](cfg Config, logger *slog.Logger) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < cfg.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			stateGauge.WithLabelValues(name).Set(stateValue(to))
		},
	}
	if cfg.Ignore != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || cfg.Ignore(err)
		}
	}
	stateGauge.WithLabelValues(cfg.Name).Set(0)
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn unless the breaker is open.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	return b.cb.Execute(fn)
}

// State reports the current breaker state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}
