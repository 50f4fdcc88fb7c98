package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqbuild"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tiepindex"
)

func TestFinalizeInitialBeTiepsRejectsAnyFinishBeTiep(t *testing.T) {
	cumulative := seqdb.NewOrderedMap[*seqdb.BackwardExtensionTiep]()
	cumulative.Set("*1-", seqdb.NewBackwardExtensionTiep())

	ok, lists := FinalizeInitialBeTieps(cumulative)
	assert.False(t, ok)
	assert.Empty(t, lists)
}

func TestFinalizeInitialBeTiepsKeepsStartBeTieps(t *testing.T) {
	cumulative := seqdb.NewOrderedMap[*seqdb.BackwardExtensionTiep]()
	cumulative.Set("*1+", seqdb.NewBackwardExtensionTiep())

	ok, lists := FinalizeInitialBeTieps(cumulative)
	assert.True(t, ok)
	assert.Len(t, lists["1+"], 1)
}

func TestBackScanSingleSTIHasNothingToBackScan(t *testing.T) {
	index := tiepindex.New()
	recs := []seqbuild.EntityRecord{
		{Entity: "E1", STIs: []*coincidence.STI{{StartTime: 0, FinishTime: 5, Symbol: 1}}},
	}
	db := seqbuild.Build(recs, index)
	for i := range db.Entries {
		db.Entries[i].Pattern.NextCoincidences = []*coincidence.Coincidence{db.Entries[i].Seq.FirstCo}
		db.Entries[i].Pattern.Tieps = []*coincidence.Tiep{db.Entries[i].Seq.FirstCo.Tieps[0]}
	}

	ok, lists := BackScan(db, 100)
	assert.True(t, ok)
	assert.Empty(t, lists)
}

func TestMayTirpBeClosedFalseWhenStartProjectorMatchesSupport(t *testing.T) {
	db := seqdb.New()
	db.Entries = append(db.Entries, seqdb.DBEntry{
		Seq:     &coincidence.CoincidenceSequence{Entity: "E1"},
		Pattern: &seqdb.PatternInstance{},
	})
	db.Support = 1

	projectors := seqdb.NewOrderedMap[*seqdb.TiepProjector]()
	startProjector := seqdb.NewTiepProjector()
	startProjector.SupportingEntities.Add("E1")
	projectors.Set("2+", startProjector)

	ok := MayTirpBeClosed(db, projectors, map[string][]*seqdb.BackwardExtensionTiep{})
	assert.False(t, ok)
}

func TestMayTirpBeClosedTrueWhenNoFullSupportProjector(t *testing.T) {
	db := seqdb.New()
	db.Entries = append(db.Entries, seqdb.DBEntry{
		Seq:     &coincidence.CoincidenceSequence{Entity: "E1"},
		Pattern: &seqdb.PatternInstance{},
	})
	db.Entries = append(db.Entries, seqdb.DBEntry{
		Seq:     &coincidence.CoincidenceSequence{Entity: "E2"},
		Pattern: &seqdb.PatternInstance{},
	})
	db.Support = 2

	projectors := seqdb.NewOrderedMap[*seqdb.TiepProjector]()
	partialProjector := seqdb.NewTiepProjector()
	partialProjector.SupportingEntities.Add("E1")
	projectors.Set("2+", partialProjector)

	ok := MayTirpBeClosed(db, projectors, map[string][]*seqdb.BackwardExtensionTiep{})
	assert.True(t, ok)
}
