package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/okian/chongus/pkg/metrics"
)

// Treap ordering: amount DESC, then name ASC. In-order traversal yields the
// board from first to last place.

type node struct {
	name   string
	amount float64
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	n.size = 1 + nsize(n.left) + nsize(n.right)
}

// before reports whether (aAmt, aName) places ahead of (bAmt, bName).
func before(aAmt float64, aName string, bAmt float64, bName string) bool {
	if aAmt != bAmt {
		return aAmt > bAmt
	}
	return aName < bName
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, in *node) *node {
	if n == nil {
		return in
	}
	if before(in.amount, in.name, n.amount, n.name) {
		n.left = insert(n.left, in)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, in)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, name string, amount float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.name == name && n.amount == amount:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, name, amount)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, name, amount)
		}
	case before(amount, name, n.amount, n.name):
		n.left = remove(n.left, name, amount)
	default:
		n.right = remove(n.right, name, amount)
	}
	fix(n)
	return n
}

// countAbove counts nodes whose amount is strictly greater than amount.
func countAbove(n *node, amount float64) int {
	count := 0
	for n != nil {
		if n.amount > amount {
			count += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

func collect(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Name: n.name, Amount: n.amount})
	}
	collect(n.right, limit, out)
}

// TreapBoard is an in-memory Board backed by a size-augmented treap.
type TreapBoard struct {
	mu     sync.RWMutex
	root   *node
	totals map[string]float64
	rng    *rand.Rand
	seed   []Entry
}

// NewTreapBoard constructs an empty board, or one seeded via options.
func NewTreapBoard(opts ...Option) *TreapBoard {
	b := &TreapBoard{
		totals: make(map[string]float64),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // tree balancing only
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, r := range b.seed {
		b.addLocked(r.Name, r.Amount)
	}
	b.seed = nil
	metrics.UpdateContributors(len(b.totals))
	return b
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Add credits amount to name.
func (b *TreapBoard) Add(_ context.Context, name string, amount float64) (Entry, error) {
	if name == "" {
		return Entry{}, ErrInvalidName
	}
	if !validAmount(amount) {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.addLocked(name, amount)
	metrics.UpdateContributors(len(b.totals))
	return Entry{Rank: countAbove(b.root, total) + 1, Name: name, Amount: total}, nil
}

func (b *TreapBoard) addLocked(name string, amount float64) float64 {
	if prev, ok := b.totals[name]; ok {
		b.root = remove(b.root, name, prev)
		amount += prev
	}
	b.totals[name] = amount
	b.root = insert(b.root, &node{name: name, amount: amount, prio: b.rng.Uint64(), size: 1})
	return amount
}

// Rank returns the row for name.
func (b *TreapBoard) Rank(_ context.Context, name string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total, ok := b.totals[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Entry{Rank: countAbove(b.root, total) + 1, Name: name, Amount: total}, nil
}

// TopN returns the first n rows.
func (b *TreapBoard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topLocked(n), nil
}

func (b *TreapBoard) topLocked(n int) []Entry {
	out := make([]Entry, 0, min(n, nsize(b.root)))
	collect(b.root, n, &out)
	for i := range out {
		if i > 0 && out[i].Amount == out[i-1].Amount {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

// Count returns the number of contributors.
func (b *TreapBoard) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.totals)
}

// All returns every row in board order, read under one lock.
func (b *TreapBoard) All(_ context.Context) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topLocked(len(b.totals))
}
