// Package render presents AVL trees and script transcripts as text, tables,
// YAML documents and interactive HTML charts.
package render

import (
	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// Node is a detached copy of one tree node and its descendants, shaped for
// presentation.
type Node struct {
	Item    any   `yaml:"item"`
	Height  int   `yaml:"height"`
	Balance int   `yaml:"balance"`
	Left    *Node `yaml:"left,omitempty"`
	Right   *Node `yaml:"right,omitempty"`
}

// Snapshot copies the subtree behind view. An empty view yields nil.
func Snapshot[T any](view avl.View[T]) (*Node, error) {
	ref, ok, err := view.Root()
	if err != nil || !ok {
		return nil, err
	}

	left, err := Snapshot(ref.Left())
	if err != nil {
		return nil, err
	}

	right, err := Snapshot(ref.Right())
	if err != nil {
		return nil, err
	}

	return &Node{
		Item:    ref.Item(),
		Height:  ref.Height(),
		Balance: ref.Balance(),
		Left:    left,
		Right:   right,
	}, nil
}

// levelEntry pairs a node with its depth; the root has depth 1.
type levelEntry struct {
	node  *Node
	depth int
}

// levels lists the nodes below root breadth-first.
func levels(root *Node) []levelEntry {
	if root == nil {
		return nil
	}

	out := []levelEntry{{node: root, depth: 1}}

	for i := 0; i < len(out); i++ {
		current := out[i]

		if current.node.Left != nil {
			out = append(out, levelEntry{node: current.node.Left, depth: current.depth + 1})
		}

		if current.node.Right != nil {
			out = append(out, levelEntry{node: current.node.Right, depth: current.depth + 1})
		}
	}

	return out
}
