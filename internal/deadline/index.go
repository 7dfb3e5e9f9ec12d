// Package deadline implements the expiration index: an ordered set of
// (deadline, key) records that can be swept from the earliest deadline.
package deadline

import (
	"time"

	"github.com/google/btree"
)

// degree is the B-tree branching factor.
const degree = 32

// Item is one record in the index. Items are created by Index.Add and must be
// handed back unchanged to Index.Remove.
type Item struct {
	// At is the absolute deadline.
	At time.Time
	// Key is the cache key owning the deadline.
	Key string

	seq uint64
}

// IsZero reports whether the item was never issued by an index.
func (it Item) IsZero() bool {
	return it.seq == 0
}

func less(a, b Item) bool {
	if a.At.Equal(b.At) {
		return a.seq < b.seq
	}
	return a.At.Before(b.At)
}

// Index orders items by deadline. Identical deadlines are allowed: ties are
// broken by insertion sequence, so ascending traversal stays total.
// An Index is not safe for concurrent use.
type Index struct {
	tree *btree.BTreeG[Item]
	seq  uint64
}

// New creates an empty index.
func New() *Index {
	return &Index{tree: btree.NewG(degree, less)}
}

// Add indexes key under the deadline at and returns the issued item.
func (x *Index) Add(key string, at time.Time) Item {
	x.seq++
	it := Item{At: at, Key: key, seq: x.seq}
	x.tree.ReplaceOrInsert(it)
	return it
}

// Remove deletes the item. It reports whether the item was present.
func (x *Index) Remove(it Item) bool {
	if it.IsZero() {
		return false
	}
	_, ok := x.tree.Delete(it)
	return ok
}

// Min returns the item with the earliest deadline.
func (x *Index) Min() (Item, bool) {
	return x.tree.Min()
}

// PopExpired removes and returns, earliest first, every item whose deadline
// is at or before now. It stops at the first later deadline.
func (x *Index) PopExpired(now time.Time) []Item {
	var expired []Item
	for {
		it, ok := x.tree.Min()
		if !ok || it.At.After(now) {
			return expired
		}
		x.tree.DeleteMin()
		expired = append(expired, it)
	}
}

// Ascend calls fn for each item in deadline order until fn returns false.
func (x *Index) Ascend(fn func(Item) bool) {
	x.tree.Ascend(fn)
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	return x.tree.Len()
}
