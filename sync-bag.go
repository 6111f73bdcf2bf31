package holdall

import (
	"fmt"

	"github.com/oliverbestmann/holdall/stow"
)

// SyncBag is the shared-access bag. Every operation works through a
// shared reference; callers never need an external lock.
//
// Synchronization is per bucket: operations on different types do not
// contend, operations on the same type serialize against each other
// and are linearizable. The bucket directory itself grows lock-free,
// so first inserts of new types do not contend either. No operation
// holds more than one bucket lock at a time, so the bag cannot
// deadlock.
//
// Unlike Bag there is no count index - Count measures the live bucket
// under its read lock - and no All iterator: handing out a lazily
// consumed iterator over a concurrently mutating structure is out of
// scope for this design. Use AllOf for a per-type snapshot.
//
// Values stored in a SyncBag are visible to every goroutine using the
// bag; store values that are safe to share.
//
// The zero value is an empty, ready to use SyncBag.
type SyncBag struct {
	_ noCopy

	dir stow.SyncDirectory
}

// NewSyncBag returns a new, empty SyncBag.
func NewSyncBag() *SyncBag {
	return &SyncBag{}
}

func (b *SyncBag) Types() []*Key {
	return b.dir.Types()
}

func (b *SyncBag) MostCommonType() (*Key, bool) {
	return b.dir.MostCommon()
}

func (b *SyncBag) IsEmpty() bool {
	return b.dir.IsEmpty()
}

// Len sums the live bucket lengths. Under concurrent mutation the
// result is a point-in-time estimate, not a consistent snapshot.
func (b *SyncBag) Len() int {
	return b.dir.Len()
}

// Clear atomically swaps in a fresh backing store. An Insert racing a
// Clear either lands before the swap and is dropped with the retired
// store, or lands after it and survives; a bucket is never left in a
// half-applied state.
func (b *SyncBag) Clear() {
	b.dir.Clear()
}

func (b *SyncBag) String() string {
	return fmt.Sprintf("SyncBag(%d types, %d values)", len(b.dir.Types()), b.dir.Len())
}

func (b *SyncBag) appendErased(ty *Key, value any) {
	b.dir.Append(ty, value)
}

func (b *SyncBag) containsErased(ty *Key, match func(slot any) bool) bool {
	return b.dir.ContainsMatch(ty, match)
}

func (b *SyncBag) removeErased(ty *Key, match func(slot any) bool) bool {
	return b.dir.RemoveFirst(ty, match)
}

func (b *SyncBag) valuesErased(ty *Key) []any {
	return b.dir.ValuesOf(ty)
}

func (b *SyncBag) countErased(ty *Key) int {
	return b.dir.Count(ty)
}
