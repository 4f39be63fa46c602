package repository

import "errors"

// Sentinel kinds for contributor board errors.
var (
	ErrNotFound      = errors.New("contributor not found")
	ErrInvalidLimit  = errors.New("invalid contributor limit")
	ErrInvalidName   = errors.New("invalid contributor name")
	ErrInvalidAmount = errors.New("invalid contribution amount")
)
