package repository

import "errors"

// Sentinel kinds for prospect board errors.
var (
	ErrNotFound     = errors.New("report not found")
	ErrInvalidLimit = errors.New("invalid board limit")
	ErrNilReport    = errors.New("nil report")
)
