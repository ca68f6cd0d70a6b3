package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyBudgetSpent is returned once a site's daily request budget is used.
var ErrDailyBudgetSpent = errors.New("daily request budget spent")

// RateLimiter spaces out requests to one marketplace. A token bucket sets
// the request rate; an optional rolling 24-hour budget caps the total.
type RateLimiter struct {
	limiter *rate.Limiter
	budget  int64

	mu      sync.Mutex
	used    int64
	resetAt time.Time
	now     func() time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithDailyBudget caps requests per rolling 24 hours. Zero means no cap.
func WithDailyBudget(n int64) RateLimiterOption {
	return func(r *RateLimiter) {
		r.budget = n
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.now = now
	}
}

// NewRateLimiter allows perSecond requests with the given burst.
// A non-positive rate disables spacing.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	r := &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.now().Add(24 * time.Hour)
	return r
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.take(); err != nil {
		return err
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

func (r *RateLimiter) take() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now := r.now(); now.After(r.resetAt) {
		r.used = 0
		r.resetAt = now.Add(24 * time.Hour)
	}
	if r.budget > 0 && r.used >= r.budget {
		return fmt.Errorf("%w (%d/%d)", ErrDailyBudgetSpent, r.used, r.budget)
	}
	r.used++
	return nil
}

// Used returns the number of requests in the current window.
func (r *RateLimiter) Used() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// Remaining returns the unused budget, or -1 when there is no cap.
func (r *RateLimiter) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.budget <= 0 {
		return -1
	}
	return max(r.budget-r.used, 0)
}
