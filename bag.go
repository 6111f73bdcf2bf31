package holdall

import (
	"fmt"
	"iter"

	"github.com/oliverbestmann/holdall/stow"
)

// Bag is the sequential bag. Mutating a Bag requires exclusive
// access; reads may run concurrently with other reads but never with
// a write. Share a SyncBag instead of wrapping a Bag in a lock.
//
// Next to the bucket directory a Bag keeps a per-type count index, so
// Count and MostCommonType never touch a bucket.
//
// The zero value is an empty, ready to use Bag.
type Bag struct {
	_ noCopy

	dir stow.Directory
}

// NewBag returns a new, empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Types() []*Key {
	return b.dir.Types()
}

func (b *Bag) MostCommonType() (*Key, bool) {
	return b.dir.MostCommon()
}

func (b *Bag) IsEmpty() bool {
	return b.dir.IsEmpty()
}

func (b *Bag) Len() int {
	return b.dir.Len()
}

func (b *Bag) Clear() {
	b.dir.Clear()
}

// All iterates over every value in the bag, bucket by bucket. Within
// one type the values appear in insertion order; the order across
// types is unspecified. The bag must not be mutated while the
// iteration is running.
func (b *Bag) All() iter.Seq[any] {
	return b.dir.All()
}

func (b *Bag) String() string {
	return fmt.Sprintf("Bag(%d types, %d values)", len(b.dir.Types()), b.dir.Len())
}

func (b *Bag) appendErased(ty *Key, value any) {
	b.dir.Append(ty, value)
}

func (b *Bag) containsErased(ty *Key, match func(slot any) bool) bool {
	return b.dir.ContainsMatch(ty, match)
}

func (b *Bag) removeErased(ty *Key, match func(slot any) bool) bool {
	return b.dir.RemoveFirst(ty, match)
}

func (b *Bag) valuesErased(ty *Key) []any {
	return b.dir.ValuesOf(ty)
}

func (b *Bag) countErased(ty *Key) int {
	return b.dir.Count(ty)
}
