// Package queue carries submitted actions to the single consumer that applies
// them, in submission order.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/pkg/metrics"
)

const defaultCapacity = 1024

// Outcome is what the consumer reports back for one envelope.
type Outcome struct {
	// Applied is false when the engine left the state unchanged.
	Applied bool
	State   model.GameState
}

// Envelope wraps an action on its way to the consumer.
type Envelope struct {
	ActionID   string
	Action     action.Action
	EnqueuedAt time.Time

	// Reply receives exactly one Outcome. It must be buffered so the
	// consumer never blocks on a submitter that gave up.
	Reply chan Outcome
}

// NewEnvelope builds an envelope with a one-slot reply channel.
func NewEnvelope(actionID string, a action.Action) Envelope {
	return Envelope{
		ActionID:   actionID,
		Action:     a,
		EnqueuedAt: time.Now(),
		Reply:      make(chan Outcome, 1),
	}
}

// Queue is a bounded FIFO of envelopes.
type Queue interface {
	// Enqueue adds e without blocking. It fails with ErrFull or ErrClosed.
	Enqueue(ctx context.Context, e Envelope) error

	// Dequeue returns the channel the consumer ranges over. It is closed by Close.
	Dequeue(ctx context.Context) <-chan Envelope

	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	envelopes chan Envelope
	capacity  int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates an in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.envelopes = make(chan Envelope, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds an envelope to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Envelope) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case q.envelopes <- e:
		metrics.UpdateQueueSize(len(q.envelopes))
		return nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Envelope {
	return q.envelopes
}

// Len returns the number of waiting envelopes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.envelopes)
	metrics.UpdateQueueSize(n)
	return n
}

// Cap returns the configured capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close stops accepting envelopes. Envelopes already queued stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.envelopes)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
