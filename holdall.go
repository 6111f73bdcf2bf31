// Package holdall implements a heterogeneous multiset, or bag: a
// single container holding values of arbitrarily many distinct types
// at once, with duplicates. Values are keyed by their static type, so
// lookup, counting and retrieval never need a caller-supplied
// discriminant.
//
// The package comes in two flavors sharing one engine: Bag is the
// sequential container with an O(1) count index, SyncBag is the
// shared-access container with per-bucket synchronization. The
// generic functions of this package accept either.
//
//	var bag holdall.Bag
//
//	holdall.Insert(&bag, 42)
//	holdall.Insert(&bag, "hello")
//
//	holdall.Contains(&bag, "hello") // true
//	holdall.Count[int](&bag)        // 1
package holdall

import "github.com/oliverbestmann/holdall/stow"

// Key identifies the static type of the values in one bucket of a
// bag. Keys compare and hash by pointer identity; see stow.TypeOf.
type Key = stow.Type

// KeyOf returns the canonical Key of the static type T.
func KeyOf[T any]() *Key {
	return stow.TypeOf[T]()
}

// Container is the surface shared by Bag and SyncBag. The two are the
// sequential and the shared-access configuration of the same engine;
// no other implementations exist.
type Container interface {
	// Types returns the Key of every bucket in the container, in
	// unspecified order. A bucket emptied by Remove is still listed
	// until Clear.
	Types() []*Key

	// MostCommonType returns the Key with the highest value count.
	// ok is false if the container holds no buckets. Exact ties
	// resolve to a deterministic but unspecified winner.
	MostCommonType() (key *Key, ok bool)

	// IsEmpty reports whether the container has no buckets.
	IsEmpty() bool

	// Len returns the total number of values across all types.
	Len() int

	// Clear resets the container to its freshly constructed state.
	Clear()

	appendErased(ty *Key, value any)
	containsErased(ty *Key, match func(slot any) bool) bool
	removeErased(ty *Key, match func(slot any) bool) bool
	valuesErased(ty *Key) []any
	countErased(ty *Key) int
}

// Insert adds a copy of value to c. The bucket is chosen by the
// static type T, never by the dynamic type inside an interface value.
// Insert always succeeds.
func Insert[T any](c Container, value T) {
	c.appendErased(stow.TypeOf[T](), value)
}

// Contains reports whether c holds a value of type T equal to value.
// The scan is linear in the number of stored T values; unknown types
// simply report false.
func Contains[T comparable](c Container, value T) bool {
	return c.containsErased(stow.TypeOf[T](), matching(value))
}

// Remove removes the first value of type T equal to value and reports
// whether a value was removed. Removing an absent value returns false
// and leaves c unchanged.
func Remove[T comparable](c Container, value T) bool {
	return c.removeErased(stow.TypeOf[T](), matching(value))
}

// AllOf returns every value of type T in c; nil if the type was never
// inserted. For a Bag the values come back in insertion order. The
// slice is a copy, mutating it does not affect c.
func AllOf[T any](c Container) []T {
	slots := c.valuesErased(stow.TypeOf[T]())
	if slots == nil {
		return nil
	}

	values := make([]T, 0, len(slots))

	for _, slot := range slots {
		// a slot that does not recover as T would be a defect in the
		// engine's keying discipline. skip it instead of panicking.
		if value, ok := slot.(T); ok {
			values = append(values, value)
		}
	}

	return values
}

// Count returns the number of values of type T in c, zero for types
// never inserted. On a Bag this reads the count index; on a SyncBag
// it measures the live bucket.
func Count[T any](c Container) int {
	return c.countErased(stow.TypeOf[T]())
}

// matching recovers each slot as a T and compares it against want.
// Slots of the wrong type never match.
func matching[T comparable](want T) func(slot any) bool {
	return func(slot any) bool {
		have, ok := slot.(T)
		return ok && have == want
	}
}
