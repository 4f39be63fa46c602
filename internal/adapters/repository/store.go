// Package repository keeps the community event's contributor board: the
// running total each contributor has put into the pool, ranked.
package repository

import "context"

// Entry is one board row. Contributors with equal totals share a rank and
// the next distinct total skips ahead (1, 2, 2, 4).
type Entry struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Board provides read/write access to contribution totals.
type Board interface {
	// Add credits amount to name's total and returns the updated row.
	Add(ctx context.Context, name string, amount float64) (Entry, error)

	// Rank returns name's row, or ErrNotFound.
	Rank(ctx context.Context, name string) (Entry, error)

	// TopN returns up to n rows, highest total first, names ascending on ties.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of contributors.
	Count(ctx context.Context) int
}

// FeaturedContributors are the community page's standing leaders a fresh
// board starts with.
func FeaturedContributors() []Entry {
	return []Entry{
		{Name: "ChongusFan2000", Amount: 1250},
		{Name: "MemeCollector", Amount: 980},
		{Name: "BigChungusLover", Amount: 875},
		{Name: "DeChongusKing", Amount: 720},
		{Name: "MemeQueen", Amount: 650},
	}
}
