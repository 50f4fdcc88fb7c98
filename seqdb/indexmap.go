package seqdb

// IndexMap is an insertion-ordered map[int]int. TiepProjector.FirstIndices
// uses it to remember, for each sequence-database entry index, an
// associated value while preserving the order entries were first added
// (BackwardExtensionTiep keeps its own order slice beside a plain map) — db entry indices are already populated
// in ascending order as callers scan a SequenceDB, so this just needs to
// avoid Go's randomized map iteration order disturbing that.
type IndexMap struct {
	order []int
	vals  map[int]int
}

// NewIndexMap returns an empty IndexMap.
func NewIndexMap() *IndexMap {
	return &IndexMap{vals: make(map[int]int)}
}

// Set records val for key, appending key to the order if it is new.
func (m *IndexMap) Set(key, val int) {
	if _, ok := m.vals[key]; !ok {
		m.order = append(m.order, key)
	}
	m.vals[key] = val
}

// SetIfAbsent records val for key only if key is not already present.
// Returns true if the value was set.
func (m *IndexMap) SetIfAbsent(key, val int) bool {
	if _, ok := m.vals[key]; ok {
		return false
	}
	m.order = append(m.order, key)
	m.vals[key] = val
	return true
}

// Get returns the value for key and whether it was present.
func (m *IndexMap) Get(key int) (int, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *IndexMap) Has(key int) bool {
	_, ok := m.vals[key]
	return ok
}

// Len returns the number of keys.
func (m *IndexMap) Len() int {
	return len(m.order)
}

// Keys returns keys in insertion order. The caller must not mutate the
// returned slice.
func (m *IndexMap) Keys() []int {
	return m.order
}
