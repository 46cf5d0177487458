package luaavl

import (
	"cmp"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
)

// compareValues orders numbers with numbers and strings with strings.
func compareValues(a, b lua.LValue) (int, error) {
	switch av := a.(type) {
	case lua.LNumber:
		bv, ok := b.(lua.LNumber)
		if !ok || math.IsNaN(float64(av)) || math.IsNaN(float64(bv)) {
			return 0, incomparable(a, b)
		}

		return cmp.Compare(float64(av), float64(bv)), nil
	case lua.LString:
		bv, ok := b.(lua.LString)
		if !ok {
			return 0, incomparable(a, b)
		}

		return cmp.Compare(string(av), string(bv)), nil
	default:
		return 0, incomparable(a, b)
	}
}

func incomparable(a, b lua.LValue) error {
	return fmt.Errorf("%w: %s and %s", avl.ErrIncomparable, a.Type(), b.Type())
}

// storable reports whether v can be kept in a tree.
func storable(v lua.LValue) bool {
	switch n := v.(type) {
	case lua.LString:
		return true
	case lua.LNumber:
		return !math.IsNaN(float64(n))
	default:
		return false
	}
}
