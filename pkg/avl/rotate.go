package avl

// rotateLeft makes root.right the new local root and returns it.
// If root has no right child the input is returned unchanged.
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func rotateLeft[T any](root *node[T]) *node[T] {
	if root == nil || root.right == nil {
		return root
	}

	pivot := root.right
	root.right = pivot.left
	pivot.left = root

	// Child first, then the new local root.
	root.refresh()
	pivot.refresh()

	return pivot
}

// rotateRight makes root.left the new local root and returns it.
// If root has no left child the input is returned unchanged.
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func rotateRight[T any](root *node[T]) *node[T] {
	if root == nil || root.left == nil {
		return root
	}

	pivot := root.left
	root.left = pivot.right
	pivot.right = root

	root.refresh()
	pivot.refresh()

	return pivot
}
