package design

import "errors"

// Sentinel errors for malformed design input.
var (
	// ErrMalformedTree is returned when a walk reaches the same node twice,
	// which means a cycle or a node shared by two parents.
	ErrMalformedTree = errors.New("malformed design tree")

	// ErrDuplicateID is returned when two blocks in one document share an id.
	ErrDuplicateID = errors.New("duplicate block id")
)
