package avl

// remove deletes the item equal to target below root and returns the new
// local root. The second result is false when no such item exists.
//
// A node with two children takes over the item of its in-order predecessor,
// which is then unlinked from the left subtree. Finding the predecessor only
// follows right links, so every comparison happens before the first
// mutation and a failed call leaves the subtree untouched.
func (t *Tree[T]) remove(root *node[T], target T, depth int) (*node[T], bool, error) {
	if root == nil {
		return nil, false, nil
	}

	err := t.enter(depth)
	if err != nil {
		return root, false, err
	}

	res, err := t.compareItems(target, root.item)
	if err != nil {
		return root, false, err
	}

	switch {
	case res < 0:
		childHeight := heightOf(root.left)

		child, removed, err := t.remove(root.left, target, depth+1)
		if err != nil || !removed {
			return root, false, err
		}

		root.left = child

		return t.leftShrunk(root, childHeight), true, nil
	case res > 0:
		childHeight := heightOf(root.right)

		child, removed, err := t.remove(root.right, target, depth+1)
		if err != nil || !removed {
			return root, false, err
		}

		root.right = child

		return t.rightShrunk(root, childHeight), true, nil
	}

	switch {
	case root.left == nil && root.right == nil:
		return nil, true, nil
	case root.left == nil || root.right == nil:
		root.absorbChild()

		return root, true, nil
	}

	childHeight := heightOf(root.left)

	child, pred, err := t.removeMax(root.left, depth+1)
	if err != nil {
		return root, false, err
	}

	root.left = child
	root.item = pred

	return t.leftShrunk(root, childHeight), true, nil
}

// removeMax unlinks the largest item below root and returns the new local
// root together with that item.
func (t *Tree[T]) removeMax(root *node[T], depth int) (*node[T], T, error) {
	err := t.enter(depth)
	if err != nil {
		var zero T

		return root, zero, err
	}

	if root.right == nil {
		item := root.item

		if root.left == nil {
			return nil, item, nil
		}

		root.absorbChild()

		return root, item, nil
	}

	childHeight := heightOf(root.right)

	child, item, err := t.removeMax(root.right, depth+1)
	if err != nil {
		return root, item, err
	}

	root.right = child

	return t.rightShrunk(root, childHeight), item, nil
}

// absorbChild replaces a node's item with that of its only child, which in
// a balanced tree is always a leaf, and turns the node into a leaf.
func (n *node[T]) absorbChild() {
	child := n.left
	if child == nil {
		child = n.right
	}

	n.item = child.item
	n.setLeaf()
}

// leftShrunk restores balance at root after a removal from its left subtree,
// whose height was childHeight before the removal.
func (t *Tree[T]) leftShrunk(root *node[T], childHeight int) *node[T] {
	if root.left != nil && root.left.height == childHeight {
		return root
	}

	root.refresh()

	if root.balance < 2 {
		return root
	}

	t.stats.Rebalances++

	if root.right.balance == -1 {
		root.right = t.rotate(root.right, false)
	}

	return t.rotate(root, true)
}

// rightShrunk is the mirror image of leftShrunk.
func (t *Tree[T]) rightShrunk(root *node[T], childHeight int) *node[T] {
	if root.right != nil && root.right.height == childHeight {
		return root
	}

	root.refresh()

	if root.balance > -2 {
		return root
	}

	t.stats.Rebalances++

	if root.left.balance == 1 {
		root.left = t.rotate(root.left, true)
	}

	return t.rotate(root, false)
}
