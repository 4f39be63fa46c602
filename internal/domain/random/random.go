// Package random supplies the uniform draws consumed by the collectible
// generator. Sources are injected so generation is reproducible under a seed.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniform draws in [0,1).
type Source interface {
	Float64() float64
}

// Seeded is a PCG-backed Source safe for concurrent use.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a Source whose sequence is fixed by seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // game randomness, not crypto
}

// NewTimeSeeded returns a Seeded source keyed on the current time.
func NewTimeSeeded() *Seeded {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// Float64 returns the next draw in [0,1).
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Scripted replays a fixed list of draws, wrapping around at the end.
// It is meant for tests that pin every draw of a generation.
type Scripted struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewScripted returns a Source that yields values in order.
func NewScripted(values ...float64) *Scripted {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Scripted{values: append([]float64(nil), values...)}
}

// Float64 returns the next scripted draw.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws reports how many values have been consumed.
func (s *Scripted) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
