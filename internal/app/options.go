package service

import (
	"context"
	"time"

	"github.com/okian/chongus/internal/adapters/repository"
	"github.com/okian/chongus/internal/adapters/repository/sqlite"
	"github.com/okian/chongus/internal/domain/engine"
	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/pkg/logger"
)

// SnapshotStore persists the game between runs.
type SnapshotStore interface {
	Save(ctx context.Context, state model.GameState, contributors []repository.Entry) error
	Latest(ctx context.Context) (sqlite.Snapshot, error)
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets how many actions may wait for the worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many action ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithPlayerName names the player of a fresh game.
func WithPlayerName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.playerName = name
		}
	}
}

// WithEngineOptions configures the engine the service applies actions with.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithSnapshots restores from store on Start and saves every interval and on Stop.
func WithSnapshots(store SnapshotStore, interval time.Duration) Option {
	return func(s *Service) {
		if store != nil && interval > 0 {
			s.snapshots = store
			s.snapshotInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
