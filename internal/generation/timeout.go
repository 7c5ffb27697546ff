package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/content-generator/internal/platform/logger"
	"github.com/sethvargo/go-retry"
)

// DefaultRetryBackoff is the pause between timed-out attempts when a policy sets none.
const DefaultRetryBackoff = 500 * time.Millisecond

// RetryPolicy bounds a single provider call.
type RetryPolicy struct {
	// Timeout is the deadline of each attempt.
	Timeout time.Duration
	// Retries is how many extra attempts follow a timed-out one.
	Retries int
	// Backoff is the fixed pause before a retry. Zero means DefaultRetryBackoff.
	Backoff time.Duration
}

// Validate checks that the policy can be used.
func (p RetryPolicy) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, p.Timeout)
	}
	if p.Retries < 0 {
		return fmt.Errorf("%w: retries cannot be negative, got %d", ErrInvalidConfig, p.Retries)
	}
	if p.Backoff < 0 {
		return fmt.Errorf("%w: backoff cannot be negative, got %s", ErrInvalidConfig, p.Backoff)
	}
	return nil
}

func (p RetryPolicy) backoff() time.Duration {
	if p.Backoff == 0 {
		return DefaultRetryBackoff
	}
	return p.Backoff
}

// CallWithTimeout runs op under policy. Each attempt gets its own deadline;
// only a deadline expiry is retried, after a constant backoff, up to
// policy.Retries extra attempts. Any other error from op is returned at once.
// When ctx ends, its error is returned.
//
// An attempt that ignores its context is abandoned, not stopped: its
// goroutine finishes in the background and the result is discarded.
func CallWithTimeout[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := policy.Validate(); err != nil {
		return zero, err
	}

	log := logger.FromContextOrDefault(ctx, slog.Default())
	b := retry.WithMaxRetries(uint64(policy.Retries), retry.NewConstant(policy.backoff()))

	attempt := 0
	return retry.DoValue(ctx, b, func(ctx context.Context) (T, error) {
		attempt++
		v, err := raceDeadline(ctx, policy.Timeout, op)
		if errors.Is(err, ErrTimeout) {
			if attempt <= policy.Retries {
				log.Warn("attempt timed out, retrying",
					slog.Int("attempt", attempt),
					slog.Int("max_attempts", policy.Retries+1),
					slog.Duration("timeout", policy.Timeout))
			}
			return zero, retry.RetryableError(err)
		}
		return v, err
	})
}

type attemptResult[T any] struct {
	value T
	err   error
}

// raceDeadline runs op in its own goroutine and waits for it or the deadline,
// whichever comes first.
func raceDeadline[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan attemptResult[T], 1)
	go func() {
		// A panicking provider fails its attempt instead of the process.
		defer func() {
			if p := recover(); p != nil {
				done <- attemptResult[T]{err: fmt.Errorf("%w: provider panicked: %v", ErrProviderAPI, p)}
			}
		}()
		v, err := op(attemptCtx)
		done <- attemptResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		// An op that honours its context fails with the deadline error
		// itself; report that as a timeout too.
		if r.err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return r.value, r.err
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}
