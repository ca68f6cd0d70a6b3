package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
)

// retryPolicy retries transient search failures with a constant pause.
type retryPolicy struct {
	attempts int
	wait     time.Duration
}

func (p retryPolicy) run(ctx context.Context, op func() error, onRetry func(err error, wait time.Duration)) error {
	attempts := max(p.attempts, 1)
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.wait), uint64(attempts-1)),
		ctx,
	)

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		metrics.SearchRetriesTotal.Inc()
		if onRetry != nil {
			onRetry(err, wait)
		}
	})
}

// transient reports whether a failed request may succeed on retry. Network
// errors, 429 and 5xx qualify; other statuses and exhausted budgets do not.
func transient(err error) bool {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return se.Transient()
	case errors.Is(err, ErrDailyBudgetSpent),
		errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
