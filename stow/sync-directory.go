package stow

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// syncBucket is a bucket carrying its own lock. All slot access goes
// through the lock; the directory map itself is never locked.
type syncBucket struct {
	mu sync.RWMutex
	bucket
}

// SyncDirectory is the shared-access storage engine. The bucket
// directory is an immutable map swapped by compare-and-swap, so new
// buckets are created without a global lock; slot access serializes
// per bucket only, and no operation ever holds more than one bucket
// lock at a time.
//
// There is no count index: Count measures the live bucket. Keeping a
// replicated index in sync under concurrent mutation would need
// exactly the cross-bucket synchronization this design avoids.
//
// The zero value is ready to use.
type SyncDirectory struct {
	buckets atomic.Pointer[map[*Type]*syncBucket]
}

// snapshot returns the current directory map, which must be treated
// as immutable. May be nil.
func (d *SyncDirectory) snapshot() map[*Type]*syncBucket {
	if p := d.buckets.Load(); p != nil {
		return *p
	}

	return nil
}

// ensure returns the bucket of ty, creating it if needed. Creation
// clones the directory map and publishes the clone by CAS, retrying
// on contention.
func (d *SyncDirectory) ensure(ty *Type) *syncBucket {
	for {
		previous := d.buckets.Load()

		if previous != nil {
			if bu, ok := (*previous)[ty]; ok {
				return bu
			}
		}

		bu := &syncBucket{bucket: bucket{ty: ty}}

		var next map[*Type]*syncBucket
		if previous != nil {
			next = maps.Clone(*previous)
		}
		if next == nil {
			next = map[*Type]*syncBucket{}
		}
		next[ty] = bu

		if d.buckets.CompareAndSwap(previous, &next) {
			return bu
		}
	}
}

// Append boxes value into the bucket of ty.
//
// An Append racing a Clear may put the value into a bucket that Clear
// has already retired; the value is then dropped with the retired
// directory. It is never visible in a half-applied state.
func (d *SyncDirectory) Append(ty *Type, value any) {
	bu := d.ensure(ty)

	bu.mu.Lock()
	bu.append(value)
	bu.mu.Unlock()
}

// RemoveFirst removes one slot of ty accepted by match, compacting
// the bucket by swap, and reports whether a slot was removed. The
// bucket stays in the directory even when it becomes empty.
func (d *SyncDirectory) RemoveFirst(ty *Type, match func(slot any) bool) bool {
	bu := d.snapshot()[ty]
	if bu == nil {
		return false
	}

	bu.mu.Lock()
	defer bu.mu.Unlock()

	idx := bu.indexOf(match)
	if idx < 0 {
		return false
	}

	bu.compactAt(idx)
	return true
}

// ContainsMatch reports whether any slot of ty is accepted by match.
func (d *SyncDirectory) ContainsMatch(ty *Type, match func(slot any) bool) bool {
	bu := d.snapshot()[ty]
	if bu == nil {
		return false
	}

	bu.mu.RLock()
	defer bu.mu.RUnlock()

	return bu.indexOf(match) >= 0
}

// ValuesOf returns a snapshot of the slots of ty, or nil if ty has no
// bucket.
func (d *SyncDirectory) ValuesOf(ty *Type) []any {
	bu := d.snapshot()[ty]
	if bu == nil {
		return nil
	}

	bu.mu.RLock()
	defer bu.mu.RUnlock()

	return slices.Clone(bu.slots)
}

// Count measures the live bucket of ty.
func (d *SyncDirectory) Count(ty *Type) int {
	bu := d.snapshot()[ty]
	if bu == nil {
		return 0
	}

	bu.mu.RLock()
	defer bu.mu.RUnlock()

	return bu.len()
}

// Types returns every type with a bucket, in unspecified order. This
// includes types whose bucket was emptied by removals.
func (d *SyncDirectory) Types() []*Type {
	return slices.Collect(maps.Keys(d.snapshot()))
}

// MostCommon returns the type whose bucket is longest at the instant
// each bucket is measured. Exact ties go to the type registered
// first. ok is false if the directory has no buckets.
func (d *SyncDirectory) MostCommon() (*Type, bool) {
	var best *Type
	bestLen := -1

	for ty, bu := range d.snapshot() {
		bu.mu.RLock()
		n := bu.len()
		bu.mu.RUnlock()

		if n > bestLen || n == bestLen && ty.Less(best) {
			best, bestLen = ty, n
		}
	}

	return best, best != nil
}

// Len sums the live bucket lengths. Under concurrent mutation the
// result is a point-in-time estimate, not a consistent snapshot.
func (d *SyncDirectory) Len() int {
	var n int

	for _, bu := range d.snapshot() {
		bu.mu.RLock()
		n += bu.len()
		bu.mu.RUnlock()
	}

	return n
}

// IsEmpty reports whether the directory has no buckets at all.
func (d *SyncDirectory) IsEmpty() bool {
	return len(d.snapshot()) == 0
}

// Clear swaps in a fresh directory. Operations still working on a
// bucket of the retired directory complete against that bucket; their
// effect is discarded with it.
func (d *SyncDirectory) Clear() {
	d.buckets.Store(&map[*Type]*syncBucket{})
}
