package stow

import (
	"iter"
	"maps"
	"slices"

	"github.com/oliverbestmann/holdall/internal/assert"
)

// Directory is the sequential storage engine: a mapping from Type to
// bucket, plus a count index that mirrors the bucket populations so
// Count and MostCommon never touch a bucket.
//
// The zero value is ready to use. A Directory must not be shared
// between goroutines without external synchronization; SyncDirectory
// is the shared-access engine.
type Directory struct {
	buckets map[*Type]*bucket
	counts  map[*Type]int
	size    int
}

// Append boxes value into the bucket of ty, creating the bucket on
// first use, and records it in the count index in the same step.
func (d *Directory) Append(ty *Type, value any) {
	if d.buckets == nil {
		d.buckets = map[*Type]*bucket{}
		d.counts = map[*Type]int{}
	}

	bu := d.buckets[ty]
	if bu == nil {
		bu = &bucket{ty: ty}
		d.buckets[ty] = bu
	}

	bu.append(value)

	d.counts[ty] += 1
	d.size += 1

	assert.CountInSync(d.counts[ty], bu.len(), bu.ty.Name)
}

// RemoveFirst removes the first slot of ty accepted by match, keeping
// the order of the remaining slots, and reports whether a slot was
// removed. The count index is updated in the same step; the bucket
// stays in the directory even when it becomes empty.
func (d *Directory) RemoveFirst(ty *Type, match func(slot any) bool) bool {
	bu := d.buckets[ty]
	if bu == nil {
		return false
	}

	idx := bu.indexOf(match)
	if idx < 0 {
		return false
	}

	bu.deleteAt(idx)

	d.counts[ty] -= 1
	d.size -= 1

	assert.CountInSync(d.counts[ty], bu.len(), bu.ty.Name)

	return true
}

// ContainsMatch reports whether any slot of ty is accepted by match.
func (d *Directory) ContainsMatch(ty *Type, match func(slot any) bool) bool {
	bu := d.buckets[ty]
	return bu != nil && bu.indexOf(match) >= 0
}

// ValuesOf returns the slots of ty in insertion order, or nil if ty
// has no bucket. The slice is the caller's; the slots still alias the
// stored values.
func (d *Directory) ValuesOf(ty *Type) []any {
	bu := d.buckets[ty]
	if bu == nil {
		return nil
	}

	return slices.Clone(bu.slots)
}

// Count returns the recorded count of ty, zero if ty was never seen.
func (d *Directory) Count(ty *Type) int {
	return d.counts[ty]
}

// Types returns every type with a bucket, in unspecified order. This
// includes types whose bucket was emptied by removals.
func (d *Directory) Types() []*Type {
	return slices.Collect(maps.Keys(d.buckets))
}

// MostCommon returns the type with the highest recorded count. Exact
// ties go to the type registered first. ok is false if no type was
// ever inserted.
func (d *Directory) MostCommon() (*Type, bool) {
	var best *Type
	bestCount := -1

	for ty, count := range d.counts {
		if count > bestCount || count == bestCount && ty.Less(best) {
			best, bestCount = ty, count
		}
	}

	return best, best != nil
}

// Len returns the total number of slots across all buckets.
func (d *Directory) Len() int {
	return d.size
}

// IsEmpty reports whether the directory has no buckets at all. A
// bucket emptied by removals still counts as present.
func (d *Directory) IsEmpty() bool {
	return len(d.buckets) == 0
}

// Clear drops all buckets and the count index in one step.
func (d *Directory) Clear() {
	clear(d.buckets)
	clear(d.counts)
	d.size = 0
}

// All iterates over every slot of every bucket, flattening. The order
// across buckets is unspecified. The directory must not be mutated
// while the iteration is running.
func (d *Directory) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, bu := range d.buckets {
			for _, slot := range bu.slots {
				if !yield(slot) {
					return
				}
			}
		}
	}
}
