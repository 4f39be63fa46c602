package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/pkg/logger"
	"github.com/okian/chongus/pkg/metrics"
)

const defaultTickInterval = time.Second

// Submitter accepts actions for serialized application.
type Submitter interface {
	Submit(ctx context.Context, a action.Action, actionID string) (Result, error)
}

// Driver submits a Tick on a fixed period. Each Tick is one atomic
// transition, so stopping between ticks never leaves partial state, and a
// skipped Tick loses nothing because credit is computed from timestamps.
type Driver struct {
	submitter Submitter
	interval  time.Duration
	logger    logger.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDriver creates a Driver ticking every interval.
func NewDriver(submitter Submitter, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &Driver{
		submitter: submitter,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run ticks until ctx is done or Stop is called.
func (d *Driver) Run(ctx context.Context) {
	defer close(d.done)
	if d.logger == nil {
		d.logger = logger.Named("driver")
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info(ctx, "driver started", logger.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// Stop halts Run. It is safe to call more than once and before Run.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Done is closed when Run returns.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

func (d *Driver) tick(ctx context.Context) {
	_, err := d.submitter.Submit(ctx, action.Tick{}, "")
	switch {
	case err == nil:
	case errors.Is(err, ErrBackpressure):
		metrics.RecordTickDropped()
		d.logger.Debug(ctx, "tick dropped, queue full")
	case errors.Is(err, ErrNotStarted), errors.Is(err, context.Canceled):
		d.logger.Debug(ctx, "tick skipped", logger.Error(err))
	default:
		metrics.RecordErrorByComponent("driver", "submit")
		d.logger.Warn(ctx, "tick failed", logger.Error(err))
	}
}
