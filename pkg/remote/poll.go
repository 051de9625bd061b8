package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// errPending marks a poll that should be repeated.
var errPending = errors.New("job pending")

// PollConfig controls how long and how often a job is polled.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// CheckFunc inspects a job once. It returns done=true when the job finished
// successfully, an error to stop polling, or (false, nil) to poll again.
// Transient errors are retried until the timeout.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Poll calls check every cfg.Interval until it reports completion, fails
// permanently, the timeout passes or ctx is cancelled.
func Poll(ctx context.Context, cfg PollConfig, check CheckFunc) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", cfg.Interval)
	}

	// A constant schedule with an elapsed-time cap.
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.Interval
	b.MaxInterval = cfg.Interval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = cfg.Timeout

	err := backoff.Retry(func() error {
		done, err := check(ctx)
		switch {
		case err != nil && IsTransient(err):
			return err
		case err != nil:
			return backoff.Permanent(err)
		case !done:
			return errPending
		default:
			return nil
		}
	}, backoff.WithContext(b, ctx))

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errPending):
		return fmt.Errorf("%w after %v", ErrPollTimeout, cfg.Timeout)
	case IsTransient(err):
		return fmt.Errorf("%w after %v: %w", ErrPollTimeout, cfg.Timeout, err)
	default:
		return err
	}
}
