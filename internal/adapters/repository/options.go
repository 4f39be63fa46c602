package repository

import "math/rand/v2"

// Option applies a configuration option to the TreapBoard.
type Option func(*TreapBoard)

// WithContributors seeds the board with existing totals, e.g. restored from
// a snapshot. Invalid rows are skipped.
func WithContributors(rows ...Entry) Option {
	return func(b *TreapBoard) {
		for _, r := range rows {
			if r.Name == "" || !validAmount(r.Amount) {
				continue
			}
			b.seed = append(b.seed, r)
		}
	}
}

// WithPrioritySeed fixes the treap priorities, making tree shape reproducible.
func WithPrioritySeed(seed uint64) Option {
	return func(b *TreapBoard) {
		b.rng = rand.New(rand.NewPCG(seed, seed+1)) //nolint:gosec // tree balancing only
	}
}
