// Package tiepindex implements the Tiep Index: a mapping from primitive tiep
// representation (e.g. "3+") to every occurrence of that tiep across all
// entities, in discovery order. Grounded on
// original_source/tirpclo/tiep_index.py.
package tiepindex

import (
	"v.io/x/lib/vlog"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/entityset"
)

// MasterTiep holds every occurrence of one primitive tiep representation,
// grouped by entity, plus the ordered list of entities that support it.
type MasterTiep struct {
	TiepOccurrences map[string][]*coincidence.Tiep
	supporting      *entityset.Set
}

func newMasterTiep() *MasterTiep {
	return &MasterTiep{
		TiepOccurrences: make(map[string][]*coincidence.Tiep),
		supporting:      entityset.New(),
	}
}

// AddOccurrence appends tiep to entity's occurrence list, assigns its
// EntityTiepIndex, and records entity as a supporter on first occurrence.
// Returns the assigned EntityTiepIndex.
func (m *MasterTiep) AddOccurrence(entity string, tiep *coincidence.Tiep) int {
	m.supporting.Add(entity)
	occ := m.TiepOccurrences[entity]
	tiep.EntityTiepIndex = len(occ)
	m.TiepOccurrences[entity] = append(occ, tiep)
	return tiep.EntityTiepIndex
}

// SupportingEntities returns entities that have at least one occurrence, in
// first-seen order.
func (m *MasterTiep) SupportingEntities() []string {
	return m.supporting.Order()
}

// Support returns the vertical support of this tiep: the number of distinct
// supporting entities.
func (m *MasterTiep) Support() int {
	return m.supporting.Len()
}

// Index maps primitive tiep representations to their MasterTiep, preserving
// first-insertion order for iteration: iteration order over primitive reps
// must equal discovery order.
type Index struct {
	order  []string
	master map[string]*MasterTiep
}

// New returns an empty Index.
func New() *Index {
	return &Index{master: make(map[string]*MasterTiep)}
}

// AddOccurrence records one occurrence of primitiveRep for entity, creating
// the MasterTiep on first use. Returns the tiep's assigned
// EntityTiepIndex.
func (ix *Index) AddOccurrence(primitiveRep, entity string, tiep *coincidence.Tiep) int {
	m, ok := ix.master[primitiveRep]
	if !ok {
		m = newMasterTiep()
		ix.master[primitiveRep] = m
		ix.order = append(ix.order, primitiveRep)
	}
	return m.AddOccurrence(entity, tiep)
}

// Get returns the MasterTiep for primitiveRep, if present.
func (ix *Index) Get(primitiveRep string) (*MasterTiep, bool) {
	m, ok := ix.master[primitiveRep]
	return m, ok
}

// MustGet returns the MasterTiep for primitiveRep, aborting if it has been
// pruned or never existed — callers only ever look up reps they already
// know are live.
func (ix *Index) MustGet(primitiveRep string) *MasterTiep {
	m, ok := ix.master[primitiveRep]
	if !ok {
		vlog.Fatalf("tiepindex: unknown primitive rep %q", primitiveRep)
	}
	return m
}

// Order returns primitive reps in first-insertion (discovery) order. The
// caller must not mutate the returned slice.
func (ix *Index) Order() []string {
	return ix.order
}

// PruneInfrequent removes every primitive rep whose support is below
// minSupport and returns the removed reps, in their original discovery
// order.
func (ix *Index) PruneInfrequent(minSupport int) []string {
	var removed []string
	var kept []string
	for _, rep := range ix.order {
		if ix.master[rep].Support() < minSupport {
			removed = append(removed, rep)
			delete(ix.master, rep)
		} else {
			kept = append(kept, rep)
		}
	}
	ix.order = kept
	return removed
}
