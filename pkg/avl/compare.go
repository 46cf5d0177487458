package avl

import (
	"cmp"
	"fmt"
	"math"
)

// Compare is a three-way comparison: negative when a < b, zero when equal,
// positive when a > b. A non-nil error means the two items cannot be ordered.
type Compare[T any] func(a, b T) (int, error)

// Ordered returns an infallible comparator for any ordered type.
func Ordered[T cmp.Ordered]() Compare[T] {
	return func(a, b T) (int, error) {
		return cmp.Compare(a, b), nil
	}
}

// CompareAny orders dynamically typed values. Numbers of any Go kind compare
// numerically with each other, strings compare with strings and bools with
// bools (false < true). Every other pairing fails with ErrIncomparable.
func CompareAny(a, b any) (int, error) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, incomparable(a, b)
		}

		return cmp.Compare(av, bv), nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, incomparable(a, b)
		}

		return compareBools(av, bv), nil
	}

	an, aok := toNumber(a)
	bn, bok := toNumber(b)

	if !aok || !bok {
		return 0, incomparable(a, b)
	}

	return an.compare(bn), nil
}

func incomparable(a, b any) error {
	return fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// number holds one numeric operand. Integer/float pairs are compared
// exactly, without rounding the integer to float64.
type number struct {
	i    int64
	u    uint64
	f    float64
	kind numberKind
}

type numberKind uint8

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

func toNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{i: int64(n), kind: kindInt}, true
	case int8:
		return number{i: int64(n), kind: kindInt}, true
	case int16:
		return number{i: int64(n), kind: kindInt}, true
	case int32:
		return number{i: int64(n), kind: kindInt}, true
	case int64:
		return number{i: n, kind: kindInt}, true
	case uint:
		return number{u: uint64(n), kind: kindUint}, true
	case uint8:
		return number{u: uint64(n), kind: kindUint}, true
	case uint16:
		return number{u: uint64(n), kind: kindUint}, true
	case uint32:
		return number{u: uint64(n), kind: kindUint}, true
	case uint64:
		return number{u: n, kind: kindUint}, true
	case float32:
		return number{f: float64(n), kind: kindFloat}, !math.IsNaN(float64(n))
	case float64:
		return number{f: n, kind: kindFloat}, !math.IsNaN(n)
	default:
		return number{}, false
	}
}

// Bounds of the int64 and uint64 ranges, both exactly representable.
const (
	minInt64Float  = -0x1p63
	maxInt64Float  = 0x1p63
	maxUint64Float = 0x1p64
)

func (n number) compare(o number) int {
	switch {
	case n.kind == kindInt && o.kind == kindInt:
		return cmp.Compare(n.i, o.i)
	case n.kind == kindUint && o.kind == kindUint:
		return cmp.Compare(n.u, o.u)
	case n.kind == kindFloat && o.kind == kindFloat:
		return cmp.Compare(n.f, o.f)
	case n.kind == kindInt && o.kind == kindUint:
		if n.i < 0 {
			return -1
		}

		return cmp.Compare(uint64(n.i), o.u)
	case n.kind == kindInt && o.kind == kindFloat:
		return compareIntFloat(n.i, o.f)
	case n.kind == kindUint && o.kind == kindFloat:
		return compareUintFloat(n.u, o.f)
	default:
		return -o.compare(n)
	}
}

// compareIntFloat compares the integer parts first and breaks ties on the
// fraction. f is never NaN.
func compareIntFloat(i int64, f float64) int {
	switch {
	case f < minInt64Float:
		return 1
	case f >= maxInt64Float:
		return -1
	}

	whole := math.Trunc(f)

	c := cmp.Compare(i, int64(whole))
	if c != 0 {
		return c
	}

	return cmp.Compare(whole, f)
}

func compareUintFloat(u uint64, f float64) int {
	switch {
	case f < 0:
		return 1
	case f >= maxUint64Float:
		return -1
	}

	whole := math.Trunc(f)

	c := cmp.Compare(u, uint64(whole))
	if c != 0 {
		return c
	}

	return cmp.Compare(whole, f)
}
