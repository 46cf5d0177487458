package avl

import "errors"

// Sentinel errors returned by tree operations.
var (
	// ErrIncomparable is returned by comparators when two items cannot be ordered.
	ErrIncomparable = errors.New("items are not comparable")

	// ErrCompare wraps any comparator failure surfaced by a tree operation.
	ErrCompare = errors.New("comparison failed")

	// ErrVisit wraps the error returned by a traversal visitor.
	ErrVisit = errors.New("visitor failed")

	// ErrDepthExceeded is returned when a recursive operation goes deeper than the configured limit.
	ErrDepthExceeded = errors.New("maximum recursion depth exceeded")

	// ErrStaleView is returned when a view or node reference is used after its owner was mutated.
	ErrStaleView = errors.New("view is stale: owning tree was modified")

	// ErrUnknownOrder is returned for an unrecognised traversal order.
	ErrUnknownOrder = errors.New("unknown traversal order")

	// ErrInvariant is returned by Check when the tree structure is corrupted.
	ErrInvariant = errors.New("tree invariant violated")
)
