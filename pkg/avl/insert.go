package avl

// insert adds item below root and returns the new local root. The second
// result is false when an equal item already exists.
//
// Comparisons only happen on the way down and the path is only relinked on
// the way back up, so a failed call returns root with nothing modified.
func (t *Tree[T]) insert(root *node[T], item T, depth int) (*node[T], bool, error) {
	if root == nil {
		return newLeaf(item), true, nil
	}

	err := t.enter(depth)
	if err != nil {
		return root, false, err
	}

	res, err := t.compareItems(item, root.item)
	if err != nil {
		return root, false, err
	}

	switch {
	case res == 0:
		return root, false, nil
	case res < 0:
		return t.insertLeft(root, item, depth)
	default:
		return t.insertRight(root, item, depth)
	}
}

func (t *Tree[T]) insertLeft(root *node[T], item T, depth int) (*node[T], bool, error) {
	childHeight := heightOf(root.left)

	child, inserted, err := t.insert(root.left, item, depth+1)
	if err != nil || !inserted {
		return root, false, err
	}

	root.left = child

	// Height unchanged: either the subtree absorbed the node or it was
	// already rebalanced further down.
	if child.height == childHeight {
		return root, true, nil
	}

	root.refresh()

	if root.balance > -2 {
		return root, true, nil
	}

	t.stats.Rebalances++

	if root.left.balance == 1 {
		// Left-right case.
		root.left = t.rotate(root.left, true)
	}

	return t.rotate(root, false), true, nil
}

func (t *Tree[T]) insertRight(root *node[T], item T, depth int) (*node[T], bool, error) {
	childHeight := heightOf(root.right)

	child, inserted, err := t.insert(root.right, item, depth+1)
	if err != nil || !inserted {
		return root, false, err
	}

	root.right = child

	if child.height == childHeight {
		return root, true, nil
	}

	root.refresh()

	if root.balance < 2 {
		return root, true, nil
	}

	t.stats.Rebalances++

	if root.right.balance == -1 {
		// Right-left case.
		root.right = t.rotate(root.right, false)
	}

	return t.rotate(root, true), true, nil
}
