package seqdb

import "github.com/tirpclo/tirpclo/coincidence"

// BackwardExtensionTiep accumulates, per DB entry index, the STIs whose
// tiep occurs as a backward-extension candidate of a pattern instance.
// Grounded on BackwardExtensionTiep in
// original_source/tirpclo/closure_checking.py (its data_types.py
// counterpart was not retrieved, but its two use sites there — construction
// and add_sti_in_entry — fully determine its shape).
type BackwardExtensionTiep struct {
	// order preserves db-entry-index insertion order: closure checking
	// iterates these maps, and that iteration feeds into lexicographic
	// tie-breaks nowhere else, but keeping it ordered costs nothing and
	// matches every other map in this codebase.
	order        []int
	STIsPerEntry map[int][]*coincidence.STI
}

// NewBackwardExtensionTiep returns an empty BackwardExtensionTiep.
func NewBackwardExtensionTiep() *BackwardExtensionTiep {
	return &BackwardExtensionTiep{STIsPerEntry: make(map[int][]*coincidence.STI)}
}

// AddSTI records sti as occurring at dbEntryIndex.
func (b *BackwardExtensionTiep) AddSTI(dbEntryIndex int, sti *coincidence.STI) {
	if _, ok := b.STIsPerEntry[dbEntryIndex]; !ok {
		b.order = append(b.order, dbEntryIndex)
	}
	b.STIsPerEntry[dbEntryIndex] = append(b.STIsPerEntry[dbEntryIndex], sti)
}

// Entries returns recorded DB entry indices in insertion order.
func (b *BackwardExtensionTiep) Entries() []int {
	return b.order
}
