// Package worker runs the single consumer that applies queued actions.
//
// Exactly one Worker may consume a queue: it applies one envelope, replies,
// and only then takes the next, so no two transitions ever overlap.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/chongus/internal/adapters/mq/queue"
	"github.com/okian/chongus/pkg/logger"
	"github.com/okian/chongus/pkg/metrics"
)

// Applier applies one envelope to the authoritative state and publishes the result.
type Applier interface {
	Apply(ctx context.Context, e queue.Envelope) queue.Outcome
}

// Source is where the worker reads envelopes from.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Envelope
}

// Worker consumes envelopes until its source closes or it is shut down.
type Worker struct {
	source  Source
	applier Applier
	name    string
	logger  logger.Logger

	shutdown chan struct{}
	done     chan struct{}
}

// New creates a worker reading from source and applying with applier.
func New(source Source, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named(w.name)
	}
	return w
}

// Run processes envelopes until ctx is done, Shutdown is called, or the
// source channel closes. Envelopes still queued on shutdown are drained
// so no submitter waits forever.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	w.logger.Info(ctx, "worker started")
	envelopes := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "worker stopped", logger.String("reason", "context done"))
			return
		case <-w.shutdown:
			w.drain(ctx, envelopes)
			w.logger.Info(ctx, "worker stopped", logger.String("reason", "shutdown"))
			return
		case e, ok := <-envelopes:
			if !ok {
				w.logger.Info(ctx, "worker stopped", logger.String("reason", "queue closed"))
				return
			}
			w.process(ctx, e)
		}
	}
}

// Shutdown asks Run to stop and waits for it.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker shutdown: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) drain(ctx context.Context, envelopes <-chan queue.Envelope) {
	for {
		select {
		case e, ok := <-envelopes:
			if !ok {
				return
			}
			w.process(ctx, e)
		default:
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, e queue.Envelope) {
	if e.Action == nil {
		w.logger.Warn(ctx, "dropping envelope without action", logger.String("action_id", e.ActionID))
		reply(e, queue.Outcome{})
		return
	}

	out := w.applier.Apply(ctx, e)
	kind := string(e.Action.Kind())
	if out.Applied {
		metrics.RecordActionApplied(kind)
	} else {
		metrics.RecordActionRejected(kind)
		w.logger.Debug(ctx, "action left state unchanged",
			logger.String("kind", kind),
			logger.String("action_id", e.ActionID),
		)
	}
	if !e.EnqueuedAt.IsZero() {
		metrics.RecordActionLatency(float64(time.Since(e.EnqueuedAt).Microseconds()) / 1000)
	}
	reply(e, out)
}

func reply(e queue.Envelope, out queue.Outcome) {
	if e.Reply == nil {
		return
	}
	select {
	case e.Reply <- out:
	default:
	}
}
