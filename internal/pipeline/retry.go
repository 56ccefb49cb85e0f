package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/seedforge/seedforge/internal/author"
)

// External calls get one bounded retry: the source workflow is batch and
// human supervised, so anything beyond a single re-attempt belongs to the
// operator.
const MaxAttempts = 2

// IsRetryable checks if an error is worth the second attempt.
func IsRetryable(err error) bool {
	var retryErr *author.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns the wait before attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// withRetry runs fn under a per-attempt timeout, retrying once on a
// retryable failure.
func withRetry(ctx context.Context, log *slog.Logger, timeout time.Duration, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = fn(attemptCtx)
		cancel()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt+1 < MaxAttempts {
			if log != nil {
				log.Warn("retryable failure", "op", op, "attempt", attempt, "error", lastErr)
			}
			select {
			case <-time.After(Backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
