package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/httputil"
)

const limiterIdleTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore keeps one token bucket per client address.
type limiterStore struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

func newLimiterStore(rps float64, burst int, ttl time.Duration) *limiterStore {
	return &limiterStore{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *limiterStore) allow(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// evict drops clients idle for longer than the TTL.
func (s *limiterStore) evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for addr, c := range s.clients {
		if now.Sub(c.lastSeen) > s.ttl {
			delete(s.clients, addr)
		}
	}
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *limiterStore) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

// RateLimit enforces a per-client token bucket of rps requests per second
// with the given burst, answering 429 once it is exhausted. Idle clients
// are evicted until ctx is cancelled.
func RateLimit(ctx context.Context, rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	store := newLimiterStore(rps, burst, limiterIdleTTL)
	go store.evictLoop(ctx)
	return rateLimit(store, logger)
}

func rateLimit(store *limiterStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r)
			if !store.allow(addr) {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("client", addr),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteFailure(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote host.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
