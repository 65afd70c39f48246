package vanillaapi

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRetryAfter is the backoff applied to a 429 without Retry-After.
const defaultRetryAfter = 30 * time.Second

// RateLimiter throttles API requests with a token bucket and honours
// server backoff after 429 responses. It delays requests, never rejects them.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter allows requestsPerMinute sustained requests.
// Zero or less disables the token bucket; server backoff still applies.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
		burst = max(1, requestsPerMinute/10)
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// Backoff delays subsequent requests according to a Retry-After value in
// seconds. An empty or invalid value uses a default delay.
func (r *RateLimiter) Backoff(retryAfter string) {
	delay := defaultRetryAfter
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		delay = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(delay); until.After(r.retryAt) {
		r.retryAt = until
	}
}
