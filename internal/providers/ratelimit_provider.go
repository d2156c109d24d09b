package providers

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/y-exe/ymkw-top/internal/structures"
)

type RateLimiterInterface interface {
	Allow(key string) bool
}

// RateLimiter keeps one token bucket per client key. The upstream
// statistics API blocks abusive clients itself; limiting here keeps the
// gateway from being the one getting blocked.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(conf *structures.Config, logger Logger) RateLimiterInterface {
	if !conf.RateLimit.Enabled || conf.RateLimit.RPS <= 0 {
		logger.Infof(TypeApp, "Rate limiting disabled")
		return &noopLimiter{}
	}

	logger.Infof(TypeApp, "Rate limiting enabled: %.1f rps, burst %d", conf.RateLimit.RPS, conf.RateLimit.Burst)

	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(conf.RateLimit.RPS),
		burst:    max(conf.RateLimit.Burst, 1),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

type noopLimiter struct{}

func (n *noopLimiter) Allow(_ string) bool { return true }

func RateLimitMiddleware(limiter RateLimiterInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientKey(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
