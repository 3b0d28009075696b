package repository

import "errors"

// Sentinel kinds for store lookups.
var (
	ErrNotFound        = errors.New("company not found")
	ErrIndexOutOfRange = errors.New("company index out of range")
)
