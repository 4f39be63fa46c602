package service

import "errors"

// Sentinel kinds for submission errors. Engine rejections are not errors;
// they come back as StatusRejected.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("action queue is full")
	ErrInvalidAction = errors.New("invalid action")
)
