package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy bounds an exponential backoff with full jitter.
// Attempt n (0-based) sleeps a random duration in [0, min(MaxDelay, BaseDelay<<n)).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Sleep and Jitter are replaceable in tests.
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func(limit time.Duration) time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// NoRetry performs exactly one attempt.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

func (p Policy) backoff(attempt int) time.Duration {
	limit := p.BaseDelay << attempt
	if limit <= 0 || (p.MaxDelay > 0 && limit > p.MaxDelay) {
		limit = p.MaxDelay
	}
	if limit <= 0 {
		return 0
	}
	if p.Jitter != nil {
		return p.Jitter(limit)
	}
	return time.Duration(rand.Int64N(int64(limit)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs op until it succeeds, returns a non-retryable error, the attempts
// are exhausted or ctx is cancelled. The last op error is returned.
func Do(ctx context.Context, p Policy, retryable func(error) bool, op func(ctx context.Context) error, logger ...*zap.Logger) error {
	l := zap.L().Named("retry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 0 {
				l.Debug("operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}
		if retryable == nil || !retryable(lastErr) {
			return lastErr
		}

		// no sleep after the last attempt
		if attempt < attempts-1 {
			delay := p.backoff(attempt)
			l.Debug("operation failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("retry_delay", delay),
				zap.Error(lastErr),
			)
			if err := sleep(ctx, delay); err != nil {
				return lastErr
			}
		}
	}

	l.Warn("operation failed after all retries",
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return lastErr
}
