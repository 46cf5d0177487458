package avl //nolint:testpackage // tests corrupt nodes directly.

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheck_DetectsCorruption verifies each invariant violation is reported.
func TestCheck_DetectsCorruption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tree *Tree[int])
	}{
		{"ordering", func(tree *Tree[int]) { tree.root.left.item = 100 }},
		{"height", func(tree *Tree[int]) { tree.root.height = 9 }},
		{"balance", func(tree *Tree[int]) { tree.root.balance = 1 }},
		{"count", func(tree *Tree[int]) { tree.count++ }},
		{"bound", func(tree *Tree[int]) {
			tree.root.left = nil
			tree.root.right.right.right = newLeaf(8)
			tree.root.right.right.refresh()
			tree.root.right.refresh()
			tree.root.refresh()
			tree.count = 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := buildTree(t, 4, 2, 6, 1, 3, 5, 7)
			require.NoError(t, tree.Check())

			tt.corrupt(tree)
			require.ErrorIs(t, tree.Check(), ErrInvariant)
		})
	}
}
