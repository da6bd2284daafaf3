package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when an artifact does not exist in the backend.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey is returned for root ids or versions that cannot form a key.
	ErrInvalidKey = errors.New("invalid storage key")
)
