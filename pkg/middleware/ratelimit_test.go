package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limitedHandler(store *limiterStore) http.Handler {
	return rateLimit(store, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(h http.Handler, remote string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func frozenStore(burst int) (*limiterStore, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newLimiterStore(1, burst, time.Minute)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	store, _ := frozenStore(3)
	h := limitedHandler(store)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code, "request %d", i+1)
	}
	rec := hit(h, "10.0.0.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", message(t, rec))
}

func TestRateLimit_RefillsOverTime(t *testing.T) {
	store, now := frozenStore(1)
	h := limitedHandler(store)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1234", nil).Code)

	*now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code)
}

func TestRateLimit_ClientsAreIndependent(t *testing.T) {
	store, _ := frozenStore(1)
	h := limitedHandler(store)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:5678", nil).Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234", nil).Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}).Code)
}

func TestLimiterStore_EvictsIdleClients(t *testing.T) {
	store, now := frozenStore(1)
	store.allow("a")
	*now = now.Add(30 * time.Second)
	store.allow("b")

	*now = now.Add(45 * time.Second)
	store.evict()
	assert.Equal(t, 1, store.size())
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", "192.0.2.1:4000", nil, "192.0.2.1"},
		{"forwarded chain", "10.0.0.1:1", map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1"}, "203.0.113.9"},
		{"bad forwarded falls back", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"no port", "192.0.2.5", nil, "192.0.2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientAddr(req))
		})
	}
}
