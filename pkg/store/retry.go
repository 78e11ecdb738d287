package store

import (
	"context"
	"time"
)

// Connection check attempts for networked backends. A server that is still
// starting (a compose stack, a fresh container) usually answers within the
// second attempt.
const (
	connectAttempts = 3
	connectDelay    = 250 * time.Millisecond
)

// retry runs fn up to attempts times, doubling delay after each failure.
// It returns the last error, or ctx.Err() if ctx ends while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
