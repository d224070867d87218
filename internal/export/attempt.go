// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"fmt"
	"time"
)

// runAttempts calls attempt until it succeeds, fails with an error that
// retryable rejects, or max attempts have been made. Between attempts it
// sleeps for backoff. Every attempt starts over from the beginning.
//
// It returns the number of attempts made. When the attempts run out the
// last error is wrapped in ErrRendererCrashed.
func runAttempts(ctx context.Context, max int, backoff time.Duration, sleep Sleeper, retryable func(error) bool, attempt func(ctx context.Context, n int) error) (int, error) {
	var last error
	for n := 1; n <= max; n++ {
		if n > 1 {
			if err := sleep(ctx, backoff); err != nil {
				return n - 1, fmt.Errorf("%w: %w", ErrRendererCrashed, last)
			}
		}

		err := attempt(ctx, n)
		if err == nil {
			return n, nil
		}
		if !retryable(err) {
			return n, err
		}
		last = err
	}
	return max, fmt.Errorf("%w after %d attempts: %w", ErrRendererCrashed, max, last)
}
