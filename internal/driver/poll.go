package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// Condition is evaluated on every poll. Returning done=false, or an error wrapping
// ErrElementNotFound, keeps the poll going; any other error stops it.
type Condition[T any] func(ctx context.Context) (value T, done bool, err error)

var errPending = errors.New("condition pending")

// PollUntil evaluates cond every interval until it is done or timeout elapses.
// On timeout the returned error wraps ErrTimeout.
func PollUntil[T any](ctx context.Context, timeout, interval time.Duration, cond Condition[T]) (T, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		zero    T
		fatal   error
		lastErr error
	)
	value, err := retry.DoWithData(func() (T, error) {
		v, done, err := cond(waitCtx)
		if err != nil {
			if errors.Is(err, ErrElementNotFound) {
				lastErr = err
				return zero, errPending
			}
			fatal = err
			return zero, retry.Unrecoverable(err)
		}
		if !done {
			return zero, errPending
		}
		return v, nil
	},
		retry.Context(waitCtx),
		retry.Attempts(0),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err == nil {
		return value, nil
	}

	if ctx.Err() != nil {
		return zero, ctx.Err()
	}
	if waitCtx.Err() != nil {
		if lastErr != nil {
			return zero, fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, lastErr)
		}
		return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if fatal != nil {
		return zero, fatal
	}
	return zero, err
}
