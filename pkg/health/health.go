package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
)

// Checker probes a single dependency.
type Checker func(ctx context.Context) error

// Status of a dependency or of the whole process.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness probes.
type Handler struct {
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]check
}

// NewHandler creates a handler whose readiness probes share timeout.
func NewHandler(timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{timeout: timeout, checks: make(map[string]check)}
}

// Register adds a critical dependency. Readiness fails while it is down.
func (h *Handler) Register(name string, fn Checker) {
	h.add(name, fn, true)
}

// RegisterOptional adds a dependency whose failure only degrades readiness.
func (h *Handler) RegisterOptional(name string, fn Checker) {
	h.add(name, fn, false)
}

func (h *Handler) add(name string, fn Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, critical: critical}
}

// Names returns the registered dependency names in sorted order.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Live always reports up while the process can serve HTTP.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
}

// Ready runs every registered probe concurrently. Any critical failure
// yields 503; optional failures report degraded with 200.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]check, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]CheckResult, len(checks))
	)
	for name, c := range checks {
		wg.Add(1)
		go func(name string, c check) {
			defer wg.Done()
			res := CheckResult{Status: StatusUp, Critical: c.critical}
			if err := c.fn(ctx); err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status != StatusDown {
			continue
		}
		if res.Critical {
			overall = StatusDown
			break
		}
		overall = StatusDegraded
	}

	status := http.StatusOK
	if overall == StatusDown {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, Response{Status: overall, Timestamp: time.Now().UTC(), Checks: results})
}
