package render

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// AVL height bound: h < 1.4405 log2(n + 2) - 0.3277.
const (
	heightBoundFactor = 1.4405
	heightBoundOffset = 0.3277
)

// HeightBound returns the largest height an AVL tree of size n can have.
func HeightBound(n int) int {
	if n <= 0 {
		return 0
	}

	return int(math.Floor(heightBoundFactor*math.Log2(float64(n)+2) - heightBoundOffset))
}

// Summary describes a tree's size, height and counters in one line.
func Summary[T any](tree *avl.Tree[T]) string {
	stats := tree.Stats()

	return fmt.Sprintf("%s items, height %d (bound %d), %s inserts, %s removes, %s rotations, %s rebalances",
		humanize.Comma(int64(tree.Len())),
		tree.Height(),
		HeightBound(tree.Len()),
		humanize.Comma(stats.Inserts),
		humanize.Comma(stats.Removes),
		humanize.Comma(stats.Rotations),
		humanize.Comma(stats.Rebalances),
	)
}
