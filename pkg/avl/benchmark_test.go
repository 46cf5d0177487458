package avl //nolint:testpackage // benchmarks share helpers with the internal tests.

import (
	"testing"
)

const benchSize = 10000

func benchTree(b *testing.B) *Tree[int] {
	b.Helper()

	tree := New[int]()

	for i := range benchSize {
		_, err := tree.Insert((i * 7919) % benchSize)
		if err != nil {
			b.Fatal(err)
		}
	}

	return tree
}

// BenchmarkInsert measures insertion into a growing tree.
func BenchmarkInsert(b *testing.B) {
	for range b.N {
		tree := New[int]()

		for i := range benchSize {
			_, _ = tree.Insert(i)
		}
	}
}

// BenchmarkLocate measures lookups in a populated tree.
func BenchmarkLocate(b *testing.B) {
	tree := benchTree(b)

	b.ResetTimer()

	for i := range b.N {
		_, _, _ = tree.Locate(i % benchSize)
	}
}

// BenchmarkInsertRemove measures churn at a stable size.
func BenchmarkInsertRemove(b *testing.B) {
	tree := benchTree(b)

	b.ResetTimer()

	for i := range b.N {
		item := benchSize + i%benchSize
		_, _ = tree.Insert(item)
		_, _ = tree.Remove(item)
	}
}

// BenchmarkInOrder measures a full traversal.
func BenchmarkInOrder(b *testing.B) {
	tree := benchTree(b)
	visit := func(int) error { return nil }

	b.ResetTimer()

	for range b.N {
		_ = tree.InOrder(visit)
	}
}

// BenchmarkMaterialize measures a deep copy of the whole tree.
func BenchmarkMaterialize(b *testing.B) {
	tree := benchTree(b)

	b.ResetTimer()

	for range b.N {
		_, _ = tree.View().Materialize()
	}
}
