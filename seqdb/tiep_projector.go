package seqdb

import "github.com/tirpclo/tirpclo/entityset"

// TiepProjector is the Candidate Generator's per-candidate bookkeeping: the
// entities that still support the candidate extension, and the earliest
// entity_tiep_index within each surviving DB record at which it legally
// extends the pattern. Grounded on data_types.TiepProjector.
type TiepProjector struct {
	SupportingEntities *entityset.Set
	FirstIndices       *IndexMap
}

// NewTiepProjector returns an empty TiepProjector.
func NewTiepProjector() *TiepProjector {
	return &TiepProjector{
		SupportingEntities: entityset.New(),
		FirstIndices:       NewIndexMap(),
	}
}

// Support returns the vertical support of the projector's candidate.
func (p *TiepProjector) Support() int {
	return p.SupportingEntities.Len()
}

// Record adds entity as a supporter (on first occurrence) and sets
// dbEntryIndex's first index to entityTiepIndex.
func (p *TiepProjector) Record(entity string, dbEntryIndex, entityTiepIndex int) {
	p.SupportingEntities.Add(entity)
	p.FirstIndices.Set(dbEntryIndex, entityTiepIndex)
}
