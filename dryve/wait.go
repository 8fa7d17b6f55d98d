package dryve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openmotion/go-dryve/internal/pool"
)

// opContext applies the configured operation timeout when the caller's
// context carries no deadline, so no wait loop can run unbounded.
func (d *Drive) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d.cfg.OperationTimeout())
}

// opErr wraps err with the operation name, translating a deadline expiry
// into ErrOperationTimedOut. Plain cancellation propagates as ctx.Err().
func opErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrOperationTimedOut)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// waitInterval sleeps for the given duration or until ctx is done.
func waitInterval(ctx context.Context, d time.Duration) error {
	timer := pool.GetTimer(d)
	defer pool.PutTimer(timer)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// waitStatus polls the status word at the given interval until accept returns
// true, the context expires, or the transport fails. Transport errors abort
// the loop immediately; they are never treated as "still waiting".
//
// It returns the accepted status word.
func (d *Drive) waitStatus(ctx context.Context, op string, interval time.Duration, accept func(StatusWord) bool) (StatusWord, error) {
	ctx, cancel := d.opContext(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		status, err := d.readStatusWord(ctx)
		if err != nil {
			return 0, opErr(op, err)
		}

		d.metrics.incPollCount()
		d.notifyProgress(ProgressEvent{Operation: op, Attempt: attempt, Status: status})

		if accept(status) {
			return status, nil
		}

		d.logger.Debug("waiting for status", "op", op, "attempt", attempt, "status", status.String())

		if err := waitInterval(ctx, interval); err != nil {
			return 0, opErr(op, err)
		}
	}
}
