package stow

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func eq[T comparable](want T) func(slot any) bool {
	return func(slot any) bool {
		have, ok := slot.(T)
		return ok && have == want
	}
}

func TestDirectory(t *testing.T) {
	var d Directory

	intType := TypeOf[int]()
	strType := TypeOf[string]()

	require.True(t, d.IsEmpty())
	require.Empty(t, d.Types())
	require.Zero(t, d.Count(intType))

	d.Append(intType, 1)
	d.Append(intType, 2)
	d.Append(intType, 2)
	d.Append(strType, "foo")

	require.False(t, d.IsEmpty())
	require.Equal(t, 3, d.Count(intType))
	require.Equal(t, 1, d.Count(strType))
	require.Equal(t, 4, d.Len())
	require.ElementsMatch(t, []*Type{intType, strType}, d.Types())

	t.Run("contains", func(t *testing.T) {
		require.True(t, d.ContainsMatch(intType, eq(2)))
		require.False(t, d.ContainsMatch(intType, eq(3)))
		require.False(t, d.ContainsMatch(TypeOf[float64](), eq(1.0)))
	})

	t.Run("values keep insertion order", func(t *testing.T) {
		require.Equal(t, []any{1, 2, 2}, d.ValuesOf(intType))
		require.Nil(t, d.ValuesOf(TypeOf[float64]()))
	})

	t.Run("most common", func(t *testing.T) {
		ty, ok := d.MostCommon()
		require.True(t, ok)
		require.Same(t, intType, ty)
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		require.True(t, d.RemoveFirst(intType, eq(2)))
		require.Equal(t, []any{1, 2}, d.ValuesOf(intType))
		require.Equal(t, 2, d.Count(intType))

		require.False(t, d.RemoveFirst(intType, eq(99)))
		require.Equal(t, 2, d.Count(intType))
	})

	t.Run("emptied bucket stays known", func(t *testing.T) {
		require.True(t, d.RemoveFirst(strType, eq("foo")))
		require.Zero(t, d.Count(strType))
		require.True(t, slices.Contains(d.Types(), strType))
		require.False(t, d.IsEmpty())
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

func TestDirectoryAll(t *testing.T) {
	var d Directory

	d.Append(TypeOf[int](), 5)
	d.Append(TypeOf[string](), "foo")
	d.Append(TypeOf[string](), "bar")

	require.ElementsMatch(t, []any{5, "foo", "bar"}, slices.Collect(d.All()))

	// an aborted iteration must not touch the directory
	for range d.All() {
		break
	}
	require.Equal(t, 3, d.Len())
}

func TestDirectoryRemoveUnknownType(t *testing.T) {
	var d Directory
	require.False(t, d.RemoveFirst(TypeOf[int](), eq(1)))
	require.True(t, d.IsEmpty())
}
