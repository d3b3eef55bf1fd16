// Package memo memoizes pure functions keyed by a behavior
// fingerprint. The fingerprint is the leading cache key component:
// when a callable's extracted references change, its fingerprint
// changes, every prior entry becomes unreachable and the cache
// invalidates itself without any explicit eviction.
package memo

import (
	"sync"
	"sync/atomic"
)

// ComparableOrStringer constrains, by convention, memoized arguments:
// either comparable or a fmt.Stringer rendered via tableKey.
type ComparableOrStringer = any

// ComparableOrString is a cache key component: a comparable value or
// a string.
type ComparableOrString = any

// Store is the cache behind a memoized function. Implementations
// must be safe for concurrent use. The keys slice is never empty: the
// fingerprint leads, argument keys follow.
type Store interface {
	Load(keys []ComparableOrString) (any, bool)
	Store(keys []ComparableOrString, value any)
}

// generations is one immutable snapshot of the table's two maps.
// Swapping generations replaces the whole snapshot in a single
// atomic store, so readers always see a coherent pair.
type generations struct {
	head  *sync.Map
	stale *sync.Map
}

// Table is the built-in Store: a bounded trie of sync.Maps kept in
// two generations. When the live generation reaches maxSize a fresh
// one takes its place and the previous head becomes the stale
// generation, so recently used entries survive one swap and the
// table never grows unbounded.
type Table struct {
	gens    atomic.Pointer[generations]
	size    atomic.Uint32
	maxSize uint32
}

// NewTable returns a Table bounded at maxSize entries per generation.
// maxSize must be positive.
func NewTable(maxSize uint32) *Table {
	if maxSize == 0 {
		panic("memo: maxSize should be greater than 0")
	}
	t := &Table{maxSize: maxSize}
	t.gens.Store(&generations{head: &sync.Map{}, stale: &sync.Map{}})
	return t
}

func (t *Table) Load(keys []ComparableOrString) (any, bool) {
	g := t.gens.Load()
	m, k := traverse(g.head, keys)
	v, ok := m.Load(k)
	if !ok {
		m, k = traverse(g.stale, keys)
		v, ok = m.Load(k)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

func (t *Table) Store(keys []ComparableOrString, value any) {
	if swapped := t.size.CompareAndSwap(t.maxSize, 0); swapped {
		old := t.gens.Load()
		t.gens.Store(&generations{head: &sync.Map{}, stale: old.head})
	}
	m, k := traverse(t.gens.Load().head, keys)
	m.Store(k, value)
	t.size.Add(1)
}

func traverse(target *sync.Map, keys []ComparableOrString) (*sync.Map, any) {
	length := len(keys)
	if length == 0 {
		panic("memo: traverse on empty keys")
	}
	for _, k := range keys[:length-1] {
		v, ok := target.Load(k)
		if !ok {
			next := &sync.Map{}
			if prev, loaded := target.LoadOrStore(k, next); loaded {
				v = prev
			} else {
				v = next
			}
		}
		target = v.(*sync.Map)
	}
	return target, keys[length-1]
}
