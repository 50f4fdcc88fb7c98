package miner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqbuild"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tiepindex"
)

type captureWriter struct {
	dbs []*seqdb.SequenceDB
}

func (c *captureWriter) WriteTIRP(db *seqdb.SequenceDB) {
	c.dbs = append(c.dbs, db)
}

func symbolsOf(db *seqdb.SequenceDB) []int {
	var syms []int
	for _, t := range db.Entries[0].Pattern.Tieps {
		if t.Type == coincidence.Start {
			syms = append(syms, t.Symbol)
		}
	}
	return syms
}

func containsSymbolSet(dbs []*seqdb.SequenceDB, want []int) bool {
	for _, db := range dbs {
		got := symbolsOf(db)
		if len(got) != len(want) {
			continue
		}
		match := true
		for i := range got {
			if got[i] != want[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Single entity, two overlapping STIs, min_support=1.
func TestDiscoverTirpsEmitsTwoSymbolOverlap(t *testing.T) {
	index := tiepindex.New()
	recs := []seqbuild.EntityRecord{
		{Entity: "E1", STIs: []*coincidence.STI{
			{StartTime: 0, FinishTime: 5, Symbol: 1},
			{StartTime: 2, FinishTime: 7, Symbol: 2},
		}},
	}
	db := seqbuild.Build(recs, index)

	w := &captureWriter{}
	DiscoverTirps(index, db, 1, 100, w, false)

	assert.True(t, containsSymbolSet(w.dbs, []int{1, 2}))
	assert.True(t, containsSymbolSet(w.dbs, []int{1}))
	assert.True(t, containsSymbolSet(w.dbs, []int{2}))
}

// Two entities with identical singleton STI, full support.
func TestDiscoverTirpsSingletonFullSupport(t *testing.T) {
	index := tiepindex.New()
	recs := []seqbuild.EntityRecord{
		{Entity: "E1", STIs: []*coincidence.STI{{StartTime: 0, FinishTime: 5, Symbol: 1}}},
		{Entity: "E2", STIs: []*coincidence.STI{{StartTime: 0, FinishTime: 5, Symbol: 1}}},
	}
	db := seqbuild.Build(recs, index)

	w := &captureWriter{}
	DiscoverTirps(index, db, 2, 100, w, false)

	assert.Len(t, w.dbs, 1)
	assert.Equal(t, []int{1}, symbolsOf(w.dbs[0]))
	assert.Equal(t, 2, w.dbs[0].Support)
}

// Max-gap filter prevents any two-symbol TIRP.
func TestDiscoverTirpsMaxGapFilter(t *testing.T) {
	index := tiepindex.New()
	recs := []seqbuild.EntityRecord{
		{Entity: "E1", STIs: []*coincidence.STI{
			{StartTime: 0, FinishTime: 2, Symbol: 1},
			{StartTime: 30, FinishTime: 40, Symbol: 2},
		}},
	}
	db := seqbuild.Build(recs, index)

	w := &captureWriter{}
	DiscoverTirps(index, db, 1, 10, w, false)

	assert.False(t, containsSymbolSet(w.dbs, []int{1, 2}))
	assert.True(t, containsSymbolSet(w.dbs, []int{1}))
	assert.True(t, containsSymbolSet(w.dbs, []int{2}))
}

// Closed mining suppresses a singleton whose extension always carries
// the same support.
func TestDiscoverTirpsClosedMiningSuppressesRedundantSingleton(t *testing.T) {
	buildRecs := func() ([]seqbuild.EntityRecord, *tiepindex.Index) {
		index := tiepindex.New()
		recs := []seqbuild.EntityRecord{
			{Entity: "E1", STIs: []*coincidence.STI{
				{StartTime: 0, FinishTime: 10, Symbol: 1},
				{StartTime: 2, FinishTime: 6, Symbol: 2},
			}},
			{Entity: "E2", STIs: []*coincidence.STI{
				{StartTime: 0, FinishTime: 10, Symbol: 1},
				{StartTime: 2, FinishTime: 6, Symbol: 2},
			}},
		}
		return recs, index
	}

	recsNonClosed, indexNonClosed := buildRecs()
	dbNonClosed := seqbuild.Build(recsNonClosed, indexNonClosed)
	wNonClosed := &captureWriter{}
	DiscoverTirps(indexNonClosed, dbNonClosed, 2, 100, wNonClosed, false)
	assert.True(t, containsSymbolSet(wNonClosed.dbs, []int{1}))

	recsClosed, indexClosed := buildRecs()
	dbClosed := seqbuild.Build(recsClosed, indexClosed)
	wClosed := &captureWriter{}
	DiscoverTirps(indexClosed, dbClosed, 2, 100, wClosed, true)
	assert.False(t, containsSymbolSet(wClosed.dbs, []int{1}))
	assert.True(t, containsSymbolSet(wClosed.dbs, []int{1, 2}))
}

// Every emitted pattern must be balanced: equal START/FINISH tieps.
func TestDiscoverTirpsOnlyEmitsBalancedPatterns(t *testing.T) {
	index := tiepindex.New()
	recs := []seqbuild.EntityRecord{
		{Entity: "E1", STIs: []*coincidence.STI{
			{StartTime: 0, FinishTime: 5, Symbol: 1},
			{StartTime: 2, FinishTime: 7, Symbol: 2},
			{StartTime: 3, FinishTime: 9, Symbol: 3},
		}},
	}
	db := seqbuild.Build(recs, index)

	w := &captureWriter{}
	DiscoverTirps(index, db, 1, 100, w, false)

	for _, emitted := range w.dbs {
		starts, finishes := 0, 0
		for _, t := range emitted.Entries[0].Pattern.Tieps {
			if t.Type == coincidence.Start {
				starts++
			} else {
				finishes++
			}
		}
		assert.Equal(t, starts, finishes)
	}
}
