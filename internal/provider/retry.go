package provider

import (
	"context"
	"math/rand/v2"
	"time"
)

const jitterPercent = 30 // ±30% jitter

// Retryer wraps a Client with bounded exponential backoff.
// Only retryable errors (see isRetryable) trigger another attempt.
type Retryer struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryer returns the retry policy used by the workflow controller.
func DefaultRetryer() *Retryer {
	return &Retryer{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Complete calls c.Complete, retrying retryable failures up to MaxAttempts
// times in total. The last error is returned unwrapped so callers can still
// classify it with errors.As.
func (r *Retryer) Complete(ctx context.Context, c Client, req *CompletionRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, r.delay(attempt-1)); err != nil {
				return "", err
			}
		}
		text, err := c.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// delay returns the backoff for attempt n (0-indexed) with jitter.
func (r *Retryer) delay(attempt int) time.Duration {
	delay := r.BaseDelay
	for range attempt {
		delay *= 2
	}
	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	if delay <= 0 {
		return 0
	}
	jitter := time.Duration(rand.IntN(int(delay)*jitterPercent*2/100+1)) - time.Duration(int(delay)*jitterPercent/100)
	return delay + jitter
}

// sleepWithContext sleeps for d, but returns early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
