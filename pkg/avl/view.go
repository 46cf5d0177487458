package avl

import "fmt"

// View is a read-only handle on a subtree owned by some Tree. It never
// modifies or frees the nodes it refers to.
//
// A view is bound to the state of its owner at the time it was taken: after
// any successful Insert or Remove, or a Clear, every operation on the view
// fails with ErrStaleView. The zero View has no owner and is always stale.
type View[T any] struct {
	owner *Tree[T]
	n     *node[T]
	gen   uint64
}

func newView[T any](owner *Tree[T], n *node[T]) View[T] {
	return View[T]{owner: owner, n: n, gen: owner.gen}
}

// Valid reports whether the view may still be used.
func (v View[T]) Valid() bool {
	return v.owner != nil && v.owner.gen == v.gen
}

// Empty reports whether the view refers to an absent subtree.
func (v View[T]) Empty() bool {
	return v.n == nil
}

func (v View[T]) live() error {
	if !v.Valid() {
		return ErrStaleView
	}

	return nil
}

// Root returns a reference to the subtree's root node.
func (v View[T]) Root() (Ref[T], bool, error) {
	err := v.live()
	if err != nil {
		return Ref[T]{}, false, err
	}

	if v.n == nil {
		return Ref[T]{}, false, nil
	}

	return newRef(v.owner, v.n), true, nil
}

// Locate searches the subtree only. An item present elsewhere in the owning
// tree is not found.
func (v View[T]) Locate(target T) (Ref[T], bool, error) {
	err := v.live()
	if err != nil {
		return Ref[T]{}, false, err
	}

	found, err := locate(v.n, target, v.owner.compare)
	if err != nil || found == nil {
		return Ref[T]{}, false, err
	}

	return newRef(v.owner, found), true, nil
}

// Contains reports whether the subtree holds an item equal to target.
func (v View[T]) Contains(target T) (bool, error) {
	_, found, err := v.Locate(target)

	return found, err
}

// Traverse applies visit to every item of the subtree in the given order.
func (v View[T]) Traverse(order Order, visit Visitor[T]) error {
	err := v.live()
	if err != nil {
		return err
	}

	return traverse(v.n, order, visit, v.owner.opts.maxDepth)
}

// InOrder visits the subtree's items in ascending order.
func (v View[T]) InOrder(visit Visitor[T]) error { return v.Traverse(InOrder, visit) }

// PreOrder visits each node of the subtree before its children.
func (v View[T]) PreOrder(visit Visitor[T]) error { return v.Traverse(PreOrder, visit) }

// PostOrder visits each node of the subtree after its children.
func (v View[T]) PostOrder(visit Visitor[T]) error { return v.Traverse(PostOrder, visit) }

// LevelOrder visits the subtree breadth-first.
func (v View[T]) LevelOrder(visit Visitor[T]) error { return v.Traverse(LevelOrder, visit) }

// Items collects the subtree's items in the given order.
func (v View[T]) Items(order Order) ([]T, error) {
	err := v.live()
	if err != nil {
		return nil, err
	}

	return collect(v.n, order, v.owner.opts.maxDepth, 0)
}

// Materialize deep-copies the subtree into a new tree that shares the
// owner's comparator and options but no nodes. Heights and balance factors
// are copied, so the result is a valid AVL tree.
func (v View[T]) Materialize() (*Tree[T], error) {
	err := v.live()
	if err != nil {
		return nil, err
	}

	out := &Tree[T]{compare: v.owner.compare, opts: v.owner.opts}

	root, count, err := copySubtree(v.n, 1, v.owner.opts.maxDepth)
	if err != nil {
		return nil, err
	}

	out.root = root
	out.count = count

	return out, nil
}

func copySubtree[T any](n *node[T], depth, maxDepth int) (*node[T], int, error) {
	if n == nil {
		return nil, 0, nil
	}

	if depth > maxDepth {
		return nil, 0, fmt.Errorf("%w: limit %d", ErrDepthExceeded, maxDepth)
	}

	left, leftCount, err := copySubtree(n.left, depth+1, maxDepth)
	if err != nil {
		return nil, 0, err
	}

	right, rightCount, err := copySubtree(n.right, depth+1, maxDepth)
	if err != nil {
		return nil, 0, err
	}

	clone := &node[T]{
		item:    n.item,
		left:    left,
		right:   right,
		height:  n.height,
		balance: n.balance,
	}

	return clone, 1 + leftCount + rightCount, nil
}

// Ref is a located node. Item, Height and Balance are captured when the ref
// is created and stay readable after the owner changes; Left and Right
// return views that are stale once the owner has been mutated.
type Ref[T any] struct {
	owner   *Tree[T]
	n       *node[T]
	gen     uint64
	item    T
	height  int
	balance int
}

func newRef[T any](owner *Tree[T], n *node[T]) Ref[T] {
	return Ref[T]{
		owner:   owner,
		n:       n,
		gen:     owner.gen,
		item:    n.item,
		height:  n.height,
		balance: n.balance,
	}
}

// Item returns the node's item.
func (r Ref[T]) Item() T { return r.item }

// Height returns the node's height; a leaf has height 1.
func (r Ref[T]) Height() int { return r.height }

// Balance returns height(right) - height(left).
func (r Ref[T]) Balance() int { return r.balance }

// Valid reports whether the owning tree is unchanged since the ref was taken.
func (r Ref[T]) Valid() bool {
	return r.owner != nil && r.owner.gen == r.gen
}

// Left returns a view of the node's left subtree.
func (r Ref[T]) Left() View[T] {
	return r.child(true)
}

// Right returns a view of the node's right subtree.
func (r Ref[T]) Right() View[T] {
	return r.child(false)
}

func (r Ref[T]) child(left bool) View[T] {
	if r.n == nil {
		return View[T]{}
	}

	v := View[T]{owner: r.owner, n: r.n.right, gen: r.gen}
	if left {
		v.n = r.n.left
	}

	return v
}
