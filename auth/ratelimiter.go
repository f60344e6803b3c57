package auth

import (
	"net/http"
	"sync"
	"time"
)

// --- Rate Limiter ---

const (
	rateLimitWindow      = time.Minute
	rateLimitMaxRequests = 5
)

type windowCount struct {
	count   int
	started time.Time
}

// RateLimiter allows a fixed number of requests per remote address per
// window. Used on the login route to slow down credential guessing.
type RateLimiter struct {
	requests map[string]windowCount
	mutex    sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]windowCount),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr, time.Now()) {
			RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string, now time.Time) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	entry, exists := rl.requests[addr]
	if !exists || now.Sub(entry.started) >= rateLimitWindow {
		rl.requests[addr] = windowCount{count: 1, started: now}
		return true
	}
	if entry.count >= rateLimitMaxRequests {
		return false
	}
	entry.count++
	rl.requests[addr] = entry
	return true
}
