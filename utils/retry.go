package utils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy is the shared bounded-retry-then-degrade contract for all
// remote calls: a fixed number of extra attempts with a linear delay and a
// per-attempt timeout. There is no unbounded retry anywhere; callers
// degrade to a fallback when Do returns an error.
type RetryPolicy struct {
	// MaxRetries is the number of extra attempts after the first.
	MaxRetries int
	// Delay is slept between attempts.
	Delay time.Duration
	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

// Do runs fn up to 1+MaxRetries times, giving each attempt its own
// deadline. It returns nil on the first success, or the last error once
// attempts are exhausted or the parent context is done.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	logger := GetLogger()

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn("Remote call attempt failed",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < p.MaxRetries && p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", op, ctx.Err())
			}
		}
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", op, p.MaxRetries+1, lastErr)
}
