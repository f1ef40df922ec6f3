package api //nolint:revive // package name is intentional

import (
	"crypto/subtle"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/metrics"
	llmerrors "github.com/aimichat/llmrouter/pkg/errors"
)

// AdminSecretHeader carries the admin secret.
const AdminSecretHeader = "X-Admin-Secret" // #nosec G101 -- header name, not a credential.

// requireAdmin answers 404 unless the server runs in development mode or the
// request carries the configured admin secret.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminAllowed(h.svc.Config(), r.Header.Get(AdminSecretHeader)) {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

func adminAllowed(cfg *config.Config, secret string) bool {
	if cfg == nil {
		return false
	}
	if cfg.Development() {
		return true
	}
	expected := cfg.App.AdminSecret
	return expected != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) == 1
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records the response status of route.
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordHTTP(route, rec.status)
	}
}

// RateLimiter limits requests per client IP with token buckets. Idle
// limiters expire from the cache.
type RateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing rpm requests per minute with the
// given burst.
func NewRateLimiter(rpm, burst int) *RateLimiter {
	if rpm <= 0 {
		rpm = 60
	}
	if burst <= 0 {
		burst = 10
	}
	return &RateLimiter{
		limiters: cache.New(10*time.Minute, 5*time.Minute),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
	}
}

// Allow reports whether a request from key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		rl.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(h *Handler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			h.writeError(w, r, llmerrors.NewRateLimitError("", "", "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
