package memo_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxen/bionic/bytecode"
	"github.com/baxen/bionic/fingerprint"
	"github.com/baxen/bionic/memo"
)

func TestMemoizeI1O1(t *testing.T) {
	count := 0
	fn := memo.MemoizeI1O1(func(i int) int {
		count++
		return i * 2
	}, 1, nil)

	assert.Equal(t, 4, fn(2))
	assert.Equal(t, 4, fn(2)) // cached
	assert.Equal(t, 1, count)
}

func TestMemoizeI2O1(t *testing.T) {
	count := 0
	fn := memo.MemoizeI2O1(func(a, b int) int {
		count++
		return a + b
	}, 1, nil)

	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 1, count)
}

func TestMemoizeI3O1(t *testing.T) {
	count := 0
	fn := memo.MemoizeI3O1(func(a, b, c int) int {
		count++
		return a * b * c
	}, 1, nil)

	assert.Equal(t, 24, fn(2, 3, 4))
	assert.Equal(t, 24, fn(2, 3, 4))
	assert.Equal(t, 1, count)
}

func TestMemoizeI1O2(t *testing.T) {
	count := 0
	fn := memo.MemoizeI1O2(func(i int) (int, error) {
		count++
		return i, nil
	}, 1, nil)

	v, err := fn(10)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	v, err = fn(10)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, count)
}

func TestMemoizeI2O2(t *testing.T) {
	count := 0
	fn := memo.MemoizeI2O2(func(a, b int) (int, string) {
		count++
		return a * b, "mul"
	}, 1, nil)

	x, y := fn(3, 4)
	assert.Equal(t, 12, x)
	assert.Equal(t, "mul", y)
	_, _ = fn(3, 4)
	assert.Equal(t, 1, count)
}

type point struct{ x, y int }

func (p point) String() string { return fmt.Sprintf("(%d,%d)", p.x, p.y) }

func TestStringerArguments(t *testing.T) {
	count := 0
	fn := memo.MemoizeI1O1(func(p point) int {
		count++
		return p.x + p.y
	}, 1, nil)

	assert.Equal(t, 3, fn(point{1, 2}))
	assert.Equal(t, 3, fn(point{1, 2}))
	assert.Equal(t, 1, count)
}

func TestFingerprintInvalidates(t *testing.T) {
	compute := func(i int) int { return i * 2 }
	store := memo.NewTable(64)

	count := 0
	counted := func(i int) int {
		count++
		return compute(i)
	}

	// Same store, two epochs of the "same" function whose behavior
	// fingerprint changed between them.
	v1 := memo.MemoizeI1O1(counted, 0xaaaa, store)
	assert.Equal(t, 4, v1(2))
	assert.Equal(t, 4, v1(2))
	assert.Equal(t, 1, count)

	v2 := memo.MemoizeI1O1(counted, 0xbbbb, store)
	assert.Equal(t, 4, v2(2))
	assert.Equal(t, 2, count) // recomputed: new fingerprint, new keys
}

func TestFingerprintFeedsMemoKeys(t *testing.T) {
	// End to end: the fingerprint of a callable whose global rebinds
	// produces a different memo epoch.
	globals := map[string]any{"factor": 2}
	code := bytecode.NewBuilder("scale", "memoize_test.go").
		LoadGlobal("factor").BinaryOp().Return().
		Code()
	fn := &bytecode.Func{Code: code, Globals: globals}

	fp1, err := fingerprint.Fingerprint(fn, nil, nil)
	require.NoError(t, err)

	store := memo.NewTable(64)
	count := 0
	scale := func(i int) int {
		count++
		return i * globals["factor"].(int)
	}

	m1 := memo.MemoizeI1O1(scale, fp1, store)
	assert.Equal(t, 6, m1(3))
	assert.Equal(t, 6, m1(3))
	assert.Equal(t, 1, count)

	globals["factor"] = 3
	fp2, err := fingerprint.Fingerprint(fn, nil, nil)
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp2)

	m2 := memo.MemoizeI1O1(scale, fp2, store)
	assert.Equal(t, 9, m2(3)) // stale 6 never surfaces
	assert.Equal(t, 2, count)
}

func TestTableBounds(t *testing.T) {
	table := memo.NewTable(2)

	table.Store([]memo.ComparableOrString{uint64(1), "a"}, 1)
	table.Store([]memo.ComparableOrString{uint64(1), "b"}, 2)
	table.Store([]memo.ComparableOrString{uint64(1), "c"}, 3)

	// The freshest entry is always present; older generations may
	// have been swapped out but lookups never return wrong values.
	v, ok := table.Load([]memo.ComparableOrString{uint64(1), "c"})
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestNewTableRejectsZero(t *testing.T) {
	assert.Panics(t, func() { memo.NewTable(0) })
}

func TestTableConcurrentUse(t *testing.T) {
	// A small bound forces generation swaps to race against readers
	// and writers on other goroutines.
	table := memo.NewTable(4)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				keys := []memo.ComparableOrString{uint64(g), i % 8}
				table.Store(keys, i)
				if v, ok := table.Load(keys); ok {
					assert.IsType(t, 0, v)
				}
			}
		}(g)
	}
	wg.Wait()

	// The table stays coherent afterwards.
	table.Store([]memo.ComparableOrString{uint64(9), "k"}, 42)
	v, ok := table.Load([]memo.ComparableOrString{uint64(9), "k"})
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestMemoizeConcurrentCallers(t *testing.T) {
	var count atomic.Int32
	fn := memo.MemoizeI1O1(func(i int) int {
		count.Add(1)
		return i * 2
	}, 1, memo.NewTable(64))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.Equal(t, (i%8)*2, fn(i%8))
			}
		}()
	}
	wg.Wait()

	// Duplicate computation is possible when callers race a miss, but
	// it stays bounded by the key space, not the call count.
	assert.LessOrEqual(t, count.Load(), int32(32))
}
