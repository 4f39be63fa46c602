// Package service owns the authoritative game state and serializes every
// action through one queue consumed by one worker.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/chongus/internal/adapters/mq/queue"
	"github.com/okian/chongus/internal/adapters/mq/worker"
	"github.com/okian/chongus/internal/adapters/repository"
	"github.com/okian/chongus/internal/adapters/repository/sqlite"
	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/internal/domain/dedupe"
	"github.com/okian/chongus/internal/domain/engine"
	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/pkg/logger"
	"github.com/okian/chongus/pkg/metrics"
)

const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 10_000
	shutdownTimeout   = 5 * time.Second
)

// Status tells a submitter what became of its action.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusRejected  Status = "rejected"
	StatusDuplicate Status = "duplicate"
)

// Result is the answer to one submission. State is the snapshot published
// right after the action was handled.
type Result struct {
	Status   Status          `json:"status"`
	Revision uint64          `json:"revision"`
	State    model.GameState `json:"state"`
}

// Service implements the dependencies the HTTP API and the Driver need.
type Service struct {
	mu sync.RWMutex

	engine  *engine.Engine
	board   *repository.TreapBoard
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	worker  *worker.Worker

	stateMu sync.RWMutex
	state   model.GameState

	// applyMu covers one transition and its board credit, so snapshots see
	// the state and the board at the same revision.
	applyMu sync.Mutex

	queueSize        int
	dedupeSize       int
	playerName       string
	engineOpts       []engine.Option
	snapshots        SnapshotStore
	snapshotInterval time.Duration

	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service. Nothing runs until Start.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		playerName: "Player",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.New(s.engineOpts...)
	return s
}

// Start restores or creates the game and starts the worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting game service...")

	state, contributors, err := s.restore(ctx)
	if err != nil {
		return err
	}
	s.setState(state)

	s.board = repository.NewTreapBoard(repository.WithContributors(contributors...))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.New(s.queue, applier{s}, worker.WithName("action-worker"))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(runCtx)

	if s.snapshots != nil {
		s.wg.Add(1)
		go s.snapshotLoop(runCtx)
	}

	publish(state)
	s.started = true
	s.logger.Info(ctx, "game service started",
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Uint64("revision", state.Revision),
		logger.Bool("snapshots", s.snapshots != nil),
	)
	return nil
}

func (s *Service) restore(ctx context.Context) (model.GameState, []repository.Entry, error) {
	fresh := model.NewGameState(s.engine.Now(), s.playerName)
	if s.snapshots == nil {
		return fresh, repository.FeaturedContributors(), nil
	}

	snap, err := s.snapshots.Latest(ctx)
	switch {
	case errors.Is(err, sqlite.ErrSnapshotNotFound):
		s.logger.Info(ctx, "no snapshot found, starting a new game")
		return fresh, repository.FeaturedContributors(), nil
	case err != nil:
		metrics.RecordSnapshotError()
		return model.GameState{}, nil, fmt.Errorf("restore snapshot: %w", err)
	}

	s.logger.Info(ctx, "restored snapshot",
		logger.Uint64("revision", snap.State.Revision),
		logger.String("saved_at", snap.SavedAt.Format(time.RFC3339)),
		logger.Int("contributors", len(snap.Contributors)),
	)
	return snap.State, snap.Contributors, nil
}

// Stop drains queued actions, stops the worker and writes a final snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping game service...")

	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
	}

	s.cancel()
	s.wg.Wait()

	if s.snapshots != nil {
		s.saveSnapshot(shutdownCtx)
	}

	s.started = false
	s.logger.Info(ctx, "game service stopped")
}

// Submit enqueues a for the worker and waits for its outcome. A non-empty
// actionID makes the submission idempotent. If ctx ends while waiting, the
// action may still be applied later.
func (s *Service) Submit(ctx context.Context, a action.Action, actionID string) (Result, error) {
	if a == nil {
		return Result{}, ErrInvalidAction
	}

	s.mu.RLock()
	started, q, deduper := s.started, s.queue, s.deduper
	s.mu.RUnlock()
	if !started {
		return Result{}, ErrNotStarted
	}

	if actionID != "" && deduper.SeenAndRecord(ctx, actionID) {
		metrics.RecordActionDuplicate()
		st := s.State()
		return Result{Status: StatusDuplicate, Revision: st.Revision, State: st}, nil
	}

	env := queue.NewEnvelope(actionID, a)
	if err := q.Enqueue(ctx, env); err != nil {
		if actionID != "" {
			deduper.Unrecord(ctx, actionID)
		}
		switch {
		case errors.Is(err, queue.ErrFull):
			return Result{}, ErrBackpressure
		case errors.Is(err, queue.ErrClosed):
			return Result{}, ErrNotStarted
		}
		return Result{}, fmt.Errorf("submit %s: %w", a.Kind(), err)
	}

	select {
	case out := <-env.Reply:
		st := out.State.Clone()
		status := StatusRejected
		if out.Applied {
			status = StatusApplied
		}
		return Result{Status: status, Revision: st.Revision, State: st}, nil
	case <-ctx.Done():
		return Result{}, fmt.Errorf("submit %s: %w", a.Kind(), ctx.Err())
	}
}

// State returns a deep copy of the published snapshot.
func (s *Service) State() model.GameState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Clone()
}

func (s *Service) setState(st model.GameState) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Now reads the engine clock.
func (s *Service) Now() time.Time {
	return s.engine.Now()
}

// CollectiblePrice is the price the engine charges per collectible.
func (s *Service) CollectiblePrice() float64 {
	return s.engine.CollectiblePrice()
}

// TopContributors returns up to n board rows.
func (s *Service) TopContributors(ctx context.Context, n int) ([]repository.Entry, error) {
	s.mu.RLock()
	board := s.board
	s.mu.RUnlock()
	if board == nil {
		return nil, ErrNotStarted
	}
	return board.TopN(ctx, n)
}

// ContributorRank returns the board row for name.
func (s *Service) ContributorRank(ctx context.Context, name string) (repository.Entry, error) {
	s.mu.RLock()
	board := s.board
	s.mu.RUnlock()
	if board == nil {
		return repository.Entry{}, ErrNotStarted
	}
	return board.Rank(ctx, name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":          s.started,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"snapshots":        s.snapshots != nil,
		"collectiblePrice": s.engine.CollectiblePrice(),
		"maxTeamSize":      s.engine.MaxTeamSize(),
	}

	if s.started {
		st := s.State()
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["seenActionIDs"] = s.deduper.Size()
		stats["contributors"] = s.board.Count(ctx)
		stats["revision"] = st.Revision
		stats["collectionSize"] = len(st.Collection)
		stats["activeExpeditions"] = len(st.Expeditions.Active)
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

// applier is the worker's view of the service.
type applier struct{ s *Service }

func (a applier) Apply(ctx context.Context, e queue.Envelope) queue.Outcome {
	s := a.s
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.stateMu.Lock()
	before := s.state
	next := s.engine.Apply(before, e.Action)
	applied := next.Revision != before.Revision
	if applied {
		s.state = next
	}
	s.stateMu.Unlock()

	if applied {
		s.afterApply(ctx, e.Action, before, next)
	}
	return queue.Outcome{Applied: applied, State: next}
}

// afterApply runs the side effects the pure engine leaves to its host.
func (s *Service) afterApply(ctx context.Context, a action.Action, before, next model.GameState) {
	switch a.(type) {
	case action.Contribute:
		delta := next.CommunityEvent.Current - before.CommunityEvent.Current
		if _, err := s.board.Add(ctx, next.Player.Name, delta); err != nil {
			metrics.RecordErrorByComponent("service", "contributor_board")
			s.logger.Error(ctx, "failed to credit contributor", logger.Error(err))
		}
	case action.GenerateCollectible:
		c := next.Collection[len(next.Collection)-1]
		metrics.RecordCollectibleGenerated(string(c.Rarity))
		s.logger.Info(ctx, "collectible generated",
			logger.String("id", c.ID),
			logger.String("rarity", string(c.Rarity)),
			logger.Int("power", c.Power()),
		)
	case action.CompleteExpedition:
		metrics.RecordExpeditionCompleted()
	}
	publish(next)
}

func publish(st model.GameState) {
	metrics.UpdatePlayer(st.Player.Currency, st.Player.ProductionRate)
	metrics.UpdateCollectionSize(len(st.Collection))
	metrics.UpdateExpeditionsActive(len(st.Expeditions.Active))
	metrics.UpdateCommunityProgress(st.CommunityEvent.Progress())
}

func (s *Service) snapshotLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.saveSnapshot(ctx)
		}
	}
}

// consistentView returns the state and the board rows between two transitions.
func (s *Service) consistentView(ctx context.Context) (model.GameState, []repository.Entry) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	return s.State(), s.board.All(ctx)
}

func (s *Service) saveSnapshot(ctx context.Context) {
	start := time.Now()
	st, rows := s.consistentView(ctx)
	if err := s.snapshots.Save(ctx, st, rows); err != nil {
		metrics.RecordSnapshotError()
		s.logger.Error(ctx, "snapshot save failed", logger.Error(err))
		return
	}
	metrics.RecordSnapshotSaved(float64(time.Since(start).Microseconds()) / 1000)
	s.logger.Debug(ctx, "snapshot saved", logger.Uint64("revision", st.Revision))
}
