package hwreg

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the hardware does not acknowledge in time.
var ErrTimeout = errors.New("hardware acknowledgment timed out")

// DefaultTimeout bounds polls started with a context that has no deadline.
const DefaultTimeout = 10 * time.Millisecond

// DefaultInterval is the delay between two polls.
const DefaultInterval = 10 * time.Microsecond

// Poll calls cond until it returns true or the context is done. A context
// without deadline is bounded by DefaultTimeout.
func Poll(ctx context.Context, interval time.Duration, cond func() bool) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if cond() {
			return nil
		}

		select {
		case <-ctx.Done():
			if cond() {
				return nil
			}

			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}

			return ErrTimeout
		case <-ticker.C:
		}
	}
}

// WaitBits waits until the bits selected by mask equal want.
func WaitBits(
	ctx context.Context,
	r Register,
	mask, want uint32,
	interval time.Duration,
) error {
	return Poll(ctx, interval, func() bool {
		return r.Get()&mask == want
	})
}
