// Package retry repeats connection probes at a fixed interval.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Connect calls ping up to attempts times, waiting delay between failures.
// It gives up early when ctx is done.
func Connect(ctx context.Context, what string, attempts int, delay time.Duration, ping func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)

	n := 0
	err := backoff.RetryNotify(
		func() error {
			n++
			return ping(ctx)
		},
		policy,
		func(err error, wait time.Duration) {
			slog.Warn(what+" not ready, retrying", "attempt", n, "of", attempts, "wait", wait, "error", err)
		},
	)
	if err != nil {
		return fmt.Errorf("%s unreachable after %d attempts: %w", what, n, err)
	}
	return nil
}
