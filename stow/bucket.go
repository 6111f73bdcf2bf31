package stow

import "slices"

// bucket holds the erased slots of a single Type in insertion order.
// Every slot boxes one owned value of the bucket's type; the keying
// discipline of the directory guarantees that no slot of a different
// type ever ends up here.
type bucket struct {
	ty    *Type
	slots []any
}

func (b *bucket) append(value any) {
	b.slots = append(b.slots, value)
}

// indexOf returns the index of the first slot accepted by match,
// or -1 if no slot matches.
func (b *bucket) indexOf(match func(slot any) bool) int {
	return slices.IndexFunc(b.slots, match)
}

// deleteAt removes the slot at idx, keeping the relative order of the
// remaining slots.
func (b *bucket) deleteAt(idx int) {
	b.slots = slices.Delete(b.slots, idx, idx+1)
}

// compactAt removes the slot at idx by swapping in the last slot.
// Cheaper than deleteAt under a lock, does not keep adjacency order.
func (b *bucket) compactAt(idx int) {
	last := len(b.slots) - 1
	b.slots[idx] = b.slots[last]
	b.slots[last] = nil
	b.slots = b.slots[:last]
}

func (b *bucket) len() int {
	return len(b.slots)
}
