package seqdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tirpclo/tirpclo/coincidence"
)

func tiepAt(symbol, time int, typ coincidence.TiepType) *coincidence.Tiep {
	sti := &coincidence.STI{StartTime: time, FinishTime: time, Symbol: symbol}
	return coincidence.NewTiep(time, sti, nil, typ)
}

func TestFilterInfrequentTiepsDropsEmptiedCoincidencesAndRenumbers(t *testing.T) {
	c0 := &coincidence.Coincidence{Index: 0}
	c1 := &coincidence.Coincidence{Index: 1, IsMeet: true}
	c2 := &coincidence.Coincidence{Index: 2, IsMeet: true}
	c0.Next, c1.Next = c1, c2

	keep := tiepAt(1, 0, coincidence.Start)
	drop := tiepAt(2, 5, coincidence.Start)
	keep2 := tiepAt(3, 10, coincidence.Start)
	c0.Tieps = []*coincidence.Tiep{keep}
	c1.Tieps = []*coincidence.Tiep{drop}
	c2.Tieps = []*coincidence.Tiep{keep2}

	seq := &coincidence.CoincidenceSequence{Entity: "e1", FirstCo: c0}
	db := New()
	db.Entries = []DBEntry{{Seq: seq, Pattern: NewPatternInstance()}}

	db.FilterInfrequentTieps(map[string]bool{"1+": true, "3+": true})

	assert.Same(t, c0, seq.FirstCo)
	assert.Same(t, c2, c0.Next)
	assert.Equal(t, 0, c0.Index)
	assert.Equal(t, 1, c2.Index)
	assert.False(t, c2.IsMeet, "meet must clear when its immediate predecessor was pruned")
}

func TestTiepProjectorRecordTracksSupportAndFirstIndices(t *testing.T) {
	p := NewTiepProjector()
	p.Record("e1", 0, 3)
	p.Record("e2", 1, 0)
	p.Record("e1", 0, 3)

	assert.Equal(t, 2, p.Support())
	idx, ok := p.FirstIndices.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestBackwardExtensionTiepAddSTIPreservesEntryOrder(t *testing.T) {
	b := NewBackwardExtensionTiep()
	s1 := &coincidence.STI{StartTime: 0, FinishTime: 1, Symbol: 1}
	s2 := &coincidence.STI{StartTime: 2, FinishTime: 3, Symbol: 2}
	b.AddSTI(2, s1)
	b.AddSTI(0, s2)
	b.AddSTI(2, s2)

	assert.Equal(t, []int{2, 0}, b.Entries())
	assert.Equal(t, []*coincidence.STI{s1, s2}, b.STIsPerEntry[2])
}
