package reflector

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/pshail/kmirror/pkg/logging"
)

// Runner drives a Reflector continuously: an initial Reset, then repeated
// Poll calls, escalating back to Reset whenever the resume version expires
// on the remote. Failures are paced with exponential backoff; each
// successful call resets the backoff.
//
// The Runner is the externally owned loop the core itself does not impose.
// Run it on a dedicated goroutine; read accessors stay usable from anywhere.
type Runner[K Object] struct {
	reflector *Reflector[K]
	backoff   *backoff.ExponentialBackOff
}

// NewRunner creates a runner over an existing reflector.
func NewRunner[K Object](r *Reflector[K]) *Runner[K] {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	return &Runner[K]{reflector: r, backoff: b}
}

// Run loops until ctx is cancelled, returning the context's error.
func (r *Runner[K]) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.reflector.Reset(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Warn(subsystem, "Full resync failed: %v", err)
			if err := r.sleep(ctx); err != nil {
				return err
			}
			continue
		}
		r.backoff.Reset()

		if err := r.pollLoop(ctx); err != nil {
			return err
		}
	}
}

// pollLoop polls until the context ends or a desync forces a resync.
func (r *Runner[K]) pollLoop(ctx context.Context) error {
	for {
		err := r.reflector.Poll(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case err == nil:
			r.backoff.Reset()
		case IsDesync(err):
			logging.Info(subsystem, "Resume version expired, rebuilding from a full snapshot")
			return nil
		default:
			logging.Warn(subsystem, "Poll failed: %v", err)
			if err := r.sleep(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Runner[K]) sleep(ctx context.Context) error {
	t := time.NewTimer(r.backoff.NextBackOff())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
