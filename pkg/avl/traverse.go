package avl

import (
	"fmt"
	"strings"
)

// Order selects a traversal order.
type Order int

// Traversal orders.
const (
	PreOrder Order = iota
	InOrder
	PostOrder
	LevelOrder
)

var orderNames = [...]string{
	PreOrder:   "pre",
	InOrder:    "in",
	PostOrder:  "post",
	LevelOrder: "level",
}

func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("Order(%d)", int(o))
	}

	return orderNames[o]
}

// ParseOrder accepts "pre", "in", "post" and "level", optionally suffixed
// with "order" or "_order" ("in_order", "preorder").
func ParseOrder(name string) (Order, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, "order")
	key = strings.TrimSuffix(key, "_")
	key = strings.TrimSuffix(key, "-")

	for i, candidate := range orderNames {
		if candidate == key {
			return Order(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, name)
}

// Visitor receives items during a traversal. Returning an error stops the
// traversal; no further items are visited.
type Visitor[T any] func(item T) error

func traverse[T any](root *node[T], order Order, visit Visitor[T], maxDepth int) error {
	switch order {
	case PreOrder, InOrder, PostOrder:
		return walk(root, order, visit, 1, maxDepth)
	case LevelOrder:
		return walkLevels(root, visit)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownOrder, order)
	}
}

// walk is the depth-first traversal. Visitor failures are wrapped exactly
// once, at the node where they happen, and returned unchanged from there.
func walk[T any](n *node[T], order Order, visit Visitor[T], depth, maxDepth int) error {
	if n == nil {
		return nil
	}

	if depth > maxDepth {
		return fmt.Errorf("%w: limit %d", ErrDepthExceeded, maxDepth)
	}

	if order == PreOrder {
		err := apply(visit, n.item)
		if err != nil {
			return err
		}
	}

	err := walk(n.left, order, visit, depth+1, maxDepth)
	if err != nil {
		return err
	}

	if order == InOrder {
		err = apply(visit, n.item)
		if err != nil {
			return err
		}
	}

	err = walk(n.right, order, visit, depth+1, maxDepth)
	if err != nil {
		return err
	}

	if order == PostOrder {
		return apply(visit, n.item)
	}

	return nil
}

// walkLevels is breadth-first and iterative, so it needs no depth guard.
func walkLevels[T any](root *node[T], visit Visitor[T]) error {
	if root == nil {
		return nil
	}

	queue := []*node[T]{root}

	for len(queue) > 0 {
		n := queue[0]
		queue[0] = nil
		queue = queue[1:]

		err := apply(visit, n.item)
		if err != nil {
			return err
		}

		if n.left != nil {
			queue = append(queue, n.left)
		}

		if n.right != nil {
			queue = append(queue, n.right)
		}
	}

	return nil
}

func apply[T any](visit Visitor[T], item T) error {
	err := visit(item)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVisit, err)
	}

	return nil
}

// collect gathers the items of the subtree at root in the given order.
func collect[T any](root *node[T], order Order, maxDepth, sizeHint int) ([]T, error) {
	out := make([]T, 0, sizeHint)

	err := traverse(root, order, func(item T) error {
		out = append(out, item)

		return nil
	}, maxDepth)
	if err != nil {
		return nil, err
	}

	return out, nil
}
