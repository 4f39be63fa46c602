// Package sqlite persists game snapshots and contributor totals in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/chongus/internal/adapters/repository"
	"github.com/okian/chongus/internal/domain/model"
)

//go:embed schema.sql
var schema string

const defaultRetain = 10

// Snapshot is one persisted copy of the game.
type Snapshot struct {
	State        model.GameState
	Contributors []repository.Entry
	SavedAt      time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithRetain keeps only the newest n snapshots after each save.
func WithRetain(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retain = n
		}
	}
}

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB  *sql.DB
	retain int
	now    func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and ensures the schema exists.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrNotConfigured)
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; the driver serializes anyway.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB, retain: defaultRetain, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save writes state and the contributor totals in one transaction.
func (s *Store) Save(ctx context.Context, state model.GameState, contributors []repository.Entry) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrNotConfigured
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (revision, saved_at, state_json) VALUES (?, ?, ?)`,
		int64(state.Revision), toMillis(s.now()), string(raw),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		s.retain,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM contributors`); err != nil {
		return fmt.Errorf("clear contributors: %w", err)
	}
	for _, c := range contributors {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO contributors (name, amount) VALUES (?, ?)`,
			c.Name, c.Amount,
		); err != nil {
			return fmt.Errorf("insert contributor %s: %w", c.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Latest returns the newest snapshot, or ErrSnapshotNotFound.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Snapshot{}, ErrNotConfigured
	}

	var (
		raw     string
		savedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT state_json, saved_at FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&raw, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}

	var state model.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	contributors, err := s.contributors(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{State: state, Contributors: contributors, SavedAt: fromMillis(savedAt)}, nil
}

// Count returns how many snapshots are retained.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

func (s *Store) contributors(ctx context.Context) ([]repository.Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, amount FROM contributors ORDER BY amount DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select contributors: %w", err)
	}
	defer rows.Close()

	out := []repository.Entry{}
	for rows.Next() {
		var e repository.Entry
		if err := rows.Scan(&e.Name, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributors: %w", err)
	}
	return out, nil
}
