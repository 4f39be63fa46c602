package sqlite

import "errors"

// Sentinel kinds for snapshot storage errors.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrNotConfigured    = errors.New("snapshot storage is not configured")
)
