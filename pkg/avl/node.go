package avl

// node is the recursive unit of the tree. Children are exclusively owned by
// their parent; the root is owned by the Tree.
type node[T any] struct {
	item        T
	left, right *node[T]
	height      int
	balance     int
}

// newLeaf creates a detached leaf holding item.
func newLeaf[T any](item T) *node[T] {
	n := &node[T]{item: item}
	n.setLeaf()

	return n
}

// setLeaf drops both children and resets the bookkeeping to that of a leaf.
func (n *node[T]) setLeaf() {
	n.left = nil
	n.right = nil
	n.height = 1
	n.balance = 0
}

// isLeaf reports whether the node has no children and consistent leaf bookkeeping.
func (n *node[T]) isLeaf() bool {
	return n.height == 1 && n.left == nil && n.right == nil && n.balance == 0
}

// heightOf returns the height of a possibly absent subtree.
func heightOf[T any](n *node[T]) int {
	if n == nil {
		return 0
	}

	return n.height
}

// updateHeight recomputes height from the children.
func (n *node[T]) updateHeight() {
	n.height = 1 + max(heightOf(n.left), heightOf(n.right))
}

// updateBalance recomputes the balance factor from the children.
func (n *node[T]) updateBalance() {
	n.balance = heightOf(n.right) - heightOf(n.left)
}

// refresh recomputes height, then balance.
func (n *node[T]) refresh() {
	n.updateHeight()
	n.updateBalance()
}
