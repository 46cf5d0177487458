// Package avl provides a height-balanced (AVL) binary search tree with
// insertion, deletion, lookup, depth-first traversals with early abort, and
// read-only subtree views that can be materialized into independent trees.
//
// Items are ordered by a comparator fixed at construction time. Comparators
// may fail (for dynamically typed items); a failed operation leaves the tree
// exactly as it was before the call.
//
// A Tree is not safe for concurrent use.
package avl

import (
	"cmp"
	"fmt"
	"iter"
)

// DefaultMaxDepth bounds the recursion depth of every recursive operation.
// A valid AVL tree of any size that fits in memory stays far below it.
const DefaultMaxDepth = 1000

// Option configures a Tree.
type Option func(*options)

type options struct {
	maxDepth int
}

func defaultOptions() options {
	return options{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the recursion depth guard. Non-positive values keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Stats counts the work performed by a tree since it was created.
type Stats struct {
	Inserts    int64
	Duplicates int64
	Removes    int64
	Misses     int64
	Rotations  int64
	Rebalances int64
}

// Sub returns the counter deltas between s and an earlier snapshot.
func (s Stats) Sub(earlier Stats) Stats {
	return Stats{
		Inserts:    s.Inserts - earlier.Inserts,
		Duplicates: s.Duplicates - earlier.Duplicates,
		Removes:    s.Removes - earlier.Removes,
		Misses:     s.Misses - earlier.Misses,
		Rotations:  s.Rotations - earlier.Rotations,
		Rebalances: s.Rebalances - earlier.Rebalances,
	}
}

// Tree is an AVL tree owning all of its nodes.
type Tree[T any] struct {
	root    *node[T]
	compare Compare[T]
	opts    options
	stats   Stats

	// Number of nodes under root.
	count int

	// Bumped on every structural mutation; views taken at an older
	// generation are stale.
	gen uint64
}

// New creates an empty tree ordered by the natural order of T.
func New[T cmp.Ordered](opts ...Option) *Tree[T] {
	return NewFunc(Ordered[T](), opts...)
}

// NewFunc creates an empty tree ordered by compare.
func NewFunc[T any](compare Compare[T], opts ...Option) *Tree[T] {
	if compare == nil {
		panic("avl: nil comparator")
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Tree[T]{compare: compare, opts: cfg}
}

// FromSeq builds a tree by inserting every item of seq in order.
// Duplicates are skipped.
func FromSeq[T cmp.Ordered](seq iter.Seq[T], opts ...Option) (*Tree[T], error) {
	return FromSeqFunc(Ordered[T](), seq, opts...)
}

// FromSeqFunc builds a tree ordered by compare from every item of seq.
// The sequence is consumed once; the first failing insertion aborts the build.
func FromSeqFunc[T any](compare Compare[T], seq iter.Seq[T], opts ...Option) (*Tree[T], error) {
	tree := NewFunc(compare, opts...)

	for item := range seq {
		_, err := tree.Insert(item)
		if err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// Len returns the number of items in the tree.
func (t *Tree[T]) Len() int {
	return t.count
}

// Height returns the height of the root, or zero for an empty tree.
func (t *Tree[T]) Height() int {
	return heightOf(t.root)
}

// Stats returns a snapshot of the operation counters.
func (t *Tree[T]) Stats() Stats {
	return t.stats
}

// MaxDepth returns the configured recursion depth guard.
func (t *Tree[T]) MaxDepth() int {
	return t.opts.maxDepth
}

// Clear drops every item. Outstanding views become stale.
func (t *Tree[T]) Clear() {
	t.root = nil
	t.count = 0
	t.gen++
}

// Root returns a reference to the root node, if any.
func (t *Tree[T]) Root() (Ref[T], bool) {
	if t.root == nil {
		return Ref[T]{}, false
	}

	return newRef(t, t.root), true
}

// View returns a read-only view over the whole tree.
func (t *Tree[T]) View() View[T] {
	return newView(t, t.root)
}

// Insert adds item to the tree. It returns false, without error, when an
// equal item is already present.
func (t *Tree[T]) Insert(item T) (bool, error) {
	root, inserted, err := t.insert(t.root, item, 1)
	if err != nil {
		return false, err
	}

	t.root = root

	if !inserted {
		t.stats.Duplicates++

		return false, nil
	}

	t.count++
	t.gen++
	t.stats.Inserts++

	return true, nil
}

// Remove deletes item from the tree. It returns false, without error, when
// the item is not present.
func (t *Tree[T]) Remove(item T) (bool, error) {
	root, removed, err := t.remove(t.root, item, 1)
	if err != nil {
		return false, err
	}

	t.root = root

	if !removed {
		t.stats.Misses++

		return false, nil
	}

	t.count--
	t.gen++
	t.stats.Removes++

	return true, nil
}

// Locate finds the node holding an item equal to target.
func (t *Tree[T]) Locate(target T) (Ref[T], bool, error) {
	found, err := locate(t.root, target, t.compare)
	if err != nil || found == nil {
		return Ref[T]{}, false, err
	}

	return newRef(t, found), true, nil
}

// Contains reports whether an item equal to target is in the tree.
func (t *Tree[T]) Contains(target T) (bool, error) {
	_, found, err := t.Locate(target)

	return found, err
}

// Traverse applies visit to every item in the given order.
func (t *Tree[T]) Traverse(order Order, visit Visitor[T]) error {
	return traverse(t.root, order, visit, t.opts.maxDepth)
}

// InOrder visits items in ascending order.
func (t *Tree[T]) InOrder(visit Visitor[T]) error {
	return t.Traverse(InOrder, visit)
}

// PreOrder visits each node before its children.
func (t *Tree[T]) PreOrder(visit Visitor[T]) error {
	return t.Traverse(PreOrder, visit)
}

// PostOrder visits each node after its children.
func (t *Tree[T]) PostOrder(visit Visitor[T]) error {
	return t.Traverse(PostOrder, visit)
}

// LevelOrder visits nodes breadth-first, left to right within a level.
func (t *Tree[T]) LevelOrder(visit Visitor[T]) error {
	return t.Traverse(LevelOrder, visit)
}

// Items collects every item in ascending order.
func (t *Tree[T]) Items() ([]T, error) {
	return collect(t.root, InOrder, t.opts.maxDepth, t.count)
}

func (t *Tree[T]) compareItems(a, b T) (int, error) {
	res, err := t.compare(a, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCompare, err)
	}

	return res, nil
}

func (t *Tree[T]) enter(depth int) error {
	if depth > t.opts.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrDepthExceeded, t.opts.maxDepth)
	}

	return nil
}

// rotate counts and performs a rotation at n.
func (t *Tree[T]) rotate(n *node[T], left bool) *node[T] {
	t.stats.Rotations++

	if left {
		return rotateLeft(n)
	}

	return rotateRight(n)
}

// locate is an iterative descent; it never recurses and never mutates.
func locate[T any](root *node[T], target T, compare Compare[T]) (*node[T], error) {
	current := root

	for current != nil {
		res, err := compare(target, current.item)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCompare, err)
		}

		switch {
		case res == 0:
			return current, nil
		case res < 0:
			current = current.left
		default:
			current = current.right
		}
	}

	return nil, nil //nolint:nilnil // not found is not an error.
}
