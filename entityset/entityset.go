// Package entityset implements an insertion-ordered set of entity IDs.
//
// Several contracts in the mining engine (MasterTiep.SupportingEntities,
// TiepProjector.SupportingEntities, ...) depend on iterating supporting
// entities in the order they were first observed, while also needing O(1)
// membership tests as candidates are filtered by vertical support. Go's
// builtin map gives the latter but not the former, so this is a small
// open-addressing hash table (farm-hash keyed, linear probing) that also
// keeps an append-only order slice — the same shape as the linear-probing
// shard in fusion/kmer_index.go, scaled down to a single dynamically
// growing table since entity sets here are modest in size and must expose
// insertion order.
package entityset

import farm "github.com/dgryski/go-farm"

const emptySlot = -1

// Set is an insertion-ordered set of strings.
type Set struct {
	order   []string
	buckets []int32 // index into order, or emptySlot
	mask    uint64
}

// New returns an empty Set.
func New() *Set {
	s := &Set{}
	s.reset(8)
	return s
}

func (s *Set) reset(size int) {
	s.buckets = make([]int32, size)
	for i := range s.buckets {
		s.buckets[i] = emptySlot
	}
	s.mask = uint64(size - 1)
}

func hash(v string) uint64 {
	return farm.Hash64([]byte(v))
}

// Len returns the number of distinct entities added so far.
func (s *Set) Len() int {
	return len(s.order)
}

// Has reports whether v has already been added.
func (s *Set) Has(v string) bool {
	if len(s.buckets) == 0 {
		return false
	}
	idx := hash(v) & s.mask
	for {
		slot := s.buckets[idx]
		if slot == emptySlot {
			return false
		}
		if s.order[slot] == v {
			return true
		}
		idx = (idx + 1) & s.mask
	}
}

// Add inserts v if not already present, preserving first-seen order.
// Returns true if v was newly added.
func (s *Set) Add(v string) bool {
	if len(s.order)*2 >= len(s.buckets) {
		s.grow()
	}
	idx := hash(v) & s.mask
	for {
		slot := s.buckets[idx]
		if slot == emptySlot {
			s.buckets[idx] = int32(len(s.order))
			s.order = append(s.order, v)
			return true
		}
		if s.order[slot] == v {
			return false
		}
		idx = (idx + 1) & s.mask
	}
}

func (s *Set) grow() {
	order := s.order
	s.reset(len(s.buckets) * 2)
	s.order = nil
	for _, v := range order {
		idx := hash(v) & s.mask
		for s.buckets[idx] != emptySlot {
			idx = (idx + 1) & s.mask
		}
		s.buckets[idx] = int32(len(s.order))
		s.order = append(s.order, v)
	}
}

// Order returns entities in first-seen (insertion) order. The caller must
// not mutate the returned slice.
func (s *Set) Order() []string {
	return s.order
}
