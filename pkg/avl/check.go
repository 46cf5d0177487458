package avl

import "fmt"

// Check verifies the structural invariants of the whole tree: strict
// in-order ordering, stored heights and balance factors, the AVL balance
// bound and the node count. The first violation is reported wrapped in
// ErrInvariant.
func (t *Tree[T]) Check() error {
	c := checker[T]{tree: t}

	_, err := c.check(t.root, 1)
	if err != nil {
		return err
	}

	if c.nodes != t.count {
		return fmt.Errorf("%w: counted %d nodes, tree reports %d", ErrInvariant, c.nodes, t.count)
	}

	return nil
}

type checker[T any] struct {
	tree  *Tree[T]
	prev  T
	seen  bool
	nodes int
}

// check walks the subtree in order and returns its computed height.
func (c *checker[T]) check(n *node[T], depth int) (int, error) {
	if n == nil {
		return 0, nil
	}

	err := c.tree.enter(depth)
	if err != nil {
		return 0, err
	}

	leftHeight, err := c.check(n.left, depth+1)
	if err != nil {
		return 0, err
	}

	if c.seen {
		res, cmpErr := c.tree.compareItems(c.prev, n.item)
		if cmpErr != nil {
			return 0, cmpErr
		}

		if res >= 0 {
			return 0, fmt.Errorf("%w: %v is not greater than %v", ErrInvariant, n.item, c.prev)
		}
	}

	c.prev = n.item
	c.seen = true
	c.nodes++

	rightHeight, err := c.check(n.right, depth+1)
	if err != nil {
		return 0, err
	}

	height := 1 + max(leftHeight, rightHeight)
	balance := rightHeight - leftHeight

	switch {
	case n.height != height:
		return 0, fmt.Errorf("%w: node %v stores height %d, actual %d", ErrInvariant, n.item, n.height, height)
	case n.balance != balance:
		return 0, fmt.Errorf("%w: node %v stores balance %d, actual %d", ErrInvariant, n.item, n.balance, balance)
	case balance < -1 || balance > 1:
		return 0, fmt.Errorf("%w: node %v is out of balance (%d)", ErrInvariant, n.item, balance)
	}

	return height, nil
}
