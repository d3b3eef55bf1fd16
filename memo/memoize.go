package memo

import "fmt"

const defaultTableSize = 1 << 10

// MemoizeI1O1 memoizes a one-argument pure function under
// fingerprint fp. A nil store gets a private bounded Table.
func MemoizeI1O1[I1 ComparableOrStringer, O1 any](
	fn func(I1) O1,
	fp uint64,
	store Store,
) func(I1) O1 {
	memoized := memoize(
		func(args ...ComparableOrStringer) any {
			return fn(args[0].(I1))
		},
		fp, store,
	)
	return func(i1 I1) O1 {
		return memoized(i1).(O1)
	}
}

func MemoizeI2O1[I1, I2 ComparableOrStringer, O1 any](
	fn func(I1, I2) O1,
	fp uint64,
	store Store,
) func(I1, I2) O1 {
	memoized := memoize(
		func(args ...ComparableOrStringer) any {
			return fn(args[0].(I1), args[1].(I2))
		},
		fp, store,
	)
	return func(i1 I1, i2 I2) O1 {
		return memoized(i1, i2).(O1)
	}
}

func MemoizeI3O1[I1, I2, I3 ComparableOrStringer, O1 any](
	fn func(I1, I2, I3) O1,
	fp uint64,
	store Store,
) func(I1, I2, I3) O1 {
	memoized := memoize(
		func(args ...ComparableOrStringer) any {
			return fn(args[0].(I1), args[1].(I2), args[2].(I3))
		},
		fp, store,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return memoized(i1, i2, i3).(O1)
	}
}

type pair[A, B any] struct {
	a A
	b B
}

// MemoizeI1O2 memoizes a one-argument function with two results.
func MemoizeI1O2[I1 ComparableOrStringer, O1, O2 any](
	fn func(I1) (O1, O2),
	fp uint64,
	store Store,
) func(I1) (O1, O2) {
	memoized := memoize(
		func(args ...ComparableOrStringer) any {
			o1, o2 := fn(args[0].(I1))
			return pair[O1, O2]{a: o1, b: o2}
		},
		fp, store,
	)
	return func(i1 I1) (O1, O2) {
		p := memoized(i1).(pair[O1, O2])
		return p.a, p.b
	}
}

func MemoizeI2O2[I1, I2 ComparableOrStringer, O1, O2 any](
	fn func(I1, I2) (O1, O2),
	fp uint64,
	store Store,
) func(I1, I2) (O1, O2) {
	memoized := memoize(
		func(args ...ComparableOrStringer) any {
			o1, o2 := fn(args[0].(I1), args[1].(I2))
			return pair[O1, O2]{a: o1, b: o2}
		},
		fp, store,
	)
	return func(i1 I1, i2 I2) (O1, O2) {
		p := memoized(i1, i2).(pair[O1, O2])
		return p.a, p.b
	}
}

// tableKey renders one argument as a cache key component. Stringers
// render to their string form so non-comparable argument types can
// still participate.
func tableKey(i ComparableOrStringer) ComparableOrString {
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringer.String()
	}
	return i
}

func memoize(
	fn func(...ComparableOrStringer) any,
	fp uint64,
	store Store,
) func(...ComparableOrStringer) any {
	if store == nil {
		store = NewTable(defaultTableSize)
	}
	return func(args ...ComparableOrStringer) any {
		keys := make([]ComparableOrString, 0, len(args)+1)
		keys = append(keys, fp)
		for _, arg := range args {
			keys = append(keys, tableKey(arg))
		}
		v, ok := store.Load(keys)
		if !ok {
			v = fn(args...)
			store.Store(keys, v)
		}
		return v
	}
}
