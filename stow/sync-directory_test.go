package stow

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncDirectory(t *testing.T) {
	var d SyncDirectory

	intType := TypeOf[int]()
	strType := TypeOf[string]()

	require.True(t, d.IsEmpty())
	require.Empty(t, d.Types())
	require.Zero(t, d.Count(intType))
	require.False(t, d.RemoveFirst(intType, eq(1)))

	d.Append(intType, 1)
	d.Append(intType, 2)
	d.Append(strType, "foo")

	require.False(t, d.IsEmpty())
	require.Equal(t, 2, d.Count(intType))
	require.Equal(t, 3, d.Len())
	require.ElementsMatch(t, []*Type{intType, strType}, d.Types())

	require.True(t, d.ContainsMatch(intType, eq(2)))
	require.False(t, d.ContainsMatch(intType, eq(3)))

	ty, ok := d.MostCommon()
	require.True(t, ok)
	require.Same(t, intType, ty)

	t.Run("remove compacts by swap", func(t *testing.T) {
		d.Append(intType, 3)

		require.True(t, d.RemoveFirst(intType, eq(1)))
		require.Equal(t, 2, d.Count(intType))

		// relative membership survives, adjacency order need not
		require.ElementsMatch(t, []any{2, 3}, d.ValuesOf(intType))
	})

	t.Run("emptied bucket stays known", func(t *testing.T) {
		require.True(t, d.RemoveFirst(strType, eq("foo")))
		require.Zero(t, d.Count(strType))
		require.True(t, slices.Contains(d.Types(), strType))
	})

	t.Run("clear behaves like a fresh directory", func(t *testing.T) {
		d.Clear()
		require.True(t, d.IsEmpty())
		require.Empty(t, d.Types())
		require.Zero(t, d.Count(intType))
		require.Zero(t, d.Len())

		_, ok := d.MostCommon()
		require.False(t, ok)
	})
}

func TestSyncDirectoryConcurrentAppend(t *testing.T) {
	var d SyncDirectory

	intType := TypeOf[int]()

	const goroutines = 10
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perGoroutine {
				d.Append(intType, g*perGoroutine+i)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, goroutines*perGoroutine, d.Count(intType))

	// no element may be lost or duplicated
	values := d.ValuesOf(intType)
	seen := make(map[any]struct{}, len(values))
	for _, value := range values {
		seen[value] = struct{}{}
	}
	require.Len(t, seen, goroutines*perGoroutine)
}

func TestSyncDirectoryConcurrentBucketCreation(t *testing.T) {
	// goroutines racing to create distinct buckets must not lose any
	// directory entries to the copy-on-write swap
	var d SyncDirectory

	types := []*Type{
		TypeOf[int](), TypeOf[string](), TypeOf[float64](),
		TypeOf[bool](), TypeOf[marker](), TypeOf[otherMarker](),
	}

	var wg sync.WaitGroup
	for _, ty := range types {
		wg.Add(1)

		go func() {
			defer wg.Done()
			d.Append(ty, nil)
		}()
	}

	wg.Wait()

	require.ElementsMatch(t, types, d.Types())
	require.Equal(t, len(types), d.Len())
}
