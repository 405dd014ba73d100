// Package dedup collapses content-identical styles and paths encountered
// while importing an authoring archive (SPEC_FULL.md §4.4). Hand-authored
// icons frequently repeat a solid-black style across many shapes; collapsing
// those duplicates keeps the encoded styles/paths sections well under the
// 255-entry limit instead of growing 1:1 with shape count.
package dedup

import "github.com/cespare/xxhash/v2"

// Tracker maps a content hash to the index an already-imported value was
// assigned. It does not own the values themselves; callers hash a value's
// canonical byte form and consult the tracker before appending a new one.
type Tracker struct {
	seen map[uint64]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[uint64]int)}
}

// Hash returns the content hash of data, the key Lookup/Record use.
func Hash(data []byte) uint64 { return xxhash.Sum64(data) }

// Lookup returns the index previously recorded for hash, if any.
func (t *Tracker) Lookup(hash uint64) (int, bool) {
	idx, ok := t.seen[hash]
	return idx, ok
}

// Record associates hash with idx, the position the caller just appended
// the new value at. Calling Record twice for the same hash overwrites the
// index; callers should only do this after confirming via Lookup that the
// hash is new.
func (t *Tracker) Record(hash uint64, idx int) {
	t.seen[hash] = idx
}

// Count reports how many distinct hashes are tracked.
func (t *Tracker) Count() int { return len(t.seen) }

// Reset clears all recorded hashes, preserving the underlying map capacity.
func (t *Tracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
}
