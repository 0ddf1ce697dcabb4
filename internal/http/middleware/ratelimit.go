package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter throttles callers with a per-IP token bucket. The router puts
// it in front of the credential endpoints so password guessing burns through
// the bucket instead of the user store.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*tokenBucket
	perSec   float64
	capacity float64
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows perSec requests per second with bursts up to burst
// per client IP.
func NewRateLimiter(perSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*tokenBucket),
		perSec:   perSec,
		capacity: float64(burst),
	}
}

// Allow reports whether a request from ip fits in its bucket, refilling it
// for the time elapsed since the last request. Buckets idle past the stale
// cutoff are dropped opportunistically while the lock is held.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.evictStale(now)

	b := rl.clients[ip]
	if b == nil {
		b = &tokenBucket{tokens: rl.capacity}
		rl.clients[ip] = b
	} else {
		b.tokens += now.Sub(b.seen).Seconds() * rl.perSec
		if b.tokens > rl.capacity {
			b.tokens = rl.capacity
		}
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

const bucketIdleCutoff = 10 * time.Minute

func (rl *RateLimiter) evictStale(now time.Time) {
	// Cheap enough to run inline; the map only holds recent callers.
	if len(rl.clients) < 1024 {
		return
	}
	for ip, b := range rl.clients {
		if now.Sub(b.seen) > bucketIdleCutoff {
			delete(rl.clients, ip)
		}
	}
}

// RateLimit rejects requests beyond the configured rate with
// 429 Too Many Requests.
func RateLimit(perSec float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(perSec, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// chi's RealIP middleware rewrites RemoteAddr from the
			// forwarding headers before this runs.
			if !limiter.Allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
