// Package engine implements the game-state transition function.
//
// Apply is total: every invalid action returns the input state unchanged and
// no error is ever reported. Transitions never mutate their input and never
// perform I/O, so callers serialize Apply calls and publish the result.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/internal/domain/clock"
	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/internal/domain/random"
)

// Defaults used when no option overrides them.
const (
	DefaultCollectiblePrice = 1000
	DefaultMaxTeamSize      = 3
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source read by Tick and StartExpedition.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRandom sets the uniform source consumed by the generator.
func WithRandom(src random.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithIDGenerator sets the function minting collectible and expedition ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithCollectiblePrice sets the currency debited per generated collectible.
func WithCollectiblePrice(price float64) Option {
	return func(e *Engine) {
		if price > 0 {
			e.price = price
		}
	}
}

// WithMaxTeamSize caps the number of collectibles sent on one expedition.
func WithMaxTeamSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTeam = n
		}
	}
}

// Engine applies actions to game states.
type Engine struct {
	clock   clock.Clock
	rng     random.Source
	newID   func() string
	price   float64
	maxTeam int
	gen     *Generator
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   clock.Real{},
		newID:   uuid.NewString,
		price:   DefaultCollectiblePrice,
		maxTeam: DefaultMaxTeamSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = random.NewTimeSeeded()
	}
	e.gen = NewGenerator(e.rng, e.newID)
	return e
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// CollectiblePrice is the currency a GenerateCollectible costs.
func (e *Engine) CollectiblePrice() float64 {
	return e.price
}

// MaxTeamSize is the largest accepted expedition team.
func (e *Engine) MaxTeamSize() int {
	return e.maxTeam
}

// Apply returns the state after a. A rejected action returns state itself;
// an accepted one returns a fresh copy with Revision advanced by one.
func (e *Engine) Apply(state model.GameState, a action.Action) model.GameState {
	if a == nil {
		return state
	}

	next := state.Clone()
	var changed bool
	switch act := a.(type) {
	case action.Tick:
		changed = e.accumulate(&next)
	case action.BuyUpgrade:
		changed = buyUpgrade(&next, act.UpgradeID)
	case action.GenerateCollectible:
		changed = e.generate(&next)
	case action.StartExpedition:
		changed = e.startExpedition(&next, act.TemplateID, act.Team)
	case action.CompleteExpedition:
		changed = completeExpedition(&next, act.ActiveID)
	case action.Contribute:
		changed = contribute(&next, act.Amount)
	}

	if !changed {
		return state
	}
	next.Revision = state.Revision + 1
	return next
}
