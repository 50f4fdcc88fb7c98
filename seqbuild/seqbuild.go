// Package seqbuild turns each entity's flat list of symbolic time
// intervals into a
// CoincidenceSequence, while populating the shared Tiep Index. Grounded on
// original_source/tirpclo/stis2seq.py.
package seqbuild

import (
	"sort"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tiepindex"
)

// EntityRecord is one entity's raw STI list, as produced by the input
// reader, prior to coincidence-sequence construction.
type EntityRecord struct {
	Entity string
	STIs   []*coincidence.STI
}

// endpoint is one exploded STI end-point awaiting grouping into a slot.
type endpoint struct {
	time int
	typ  coincidence.TiepType
	sti  *coincidence.STI
}

// slot groups every STI end-point sharing one (time, type), the unit that
// becomes a single Coincidence.
type slot struct {
	time int
	typ  coincidence.TiepType
	stis []*coincidence.STI
}

// Build converts every entity's STI list into a CoincidenceSequence, adds
// every generated tiep to index (which assigns entity_tiep_index and, via
// that, each STI's final EntitySTIIndex), and returns the initial
// SequenceDB with a fresh, empty PatternInstance per entry.
func Build(entities []EntityRecord, index *tiepindex.Index) *seqdb.SequenceDB {
	db := seqdb.New()
	for _, rec := range entities {
		seq := buildOne(rec, index)
		db.Entries = append(db.Entries, seqdb.DBEntry{
			Seq:     seq,
			Pattern: seqdb.NewPatternInstance(),
		})
	}
	return db
}

func buildOne(rec EntityRecord, index *tiepindex.Index) *coincidence.CoincidenceSequence {
	slots := groupIntoSlots(rec.STIs)

	var first, cur *coincidence.Coincidence
	for i, s := range slots {
		isMeet := false
		if s.typ == coincidence.Start && i > 0 && slots[i-1].time == s.time {
			isMeet = true
		}
		co := &coincidence.Coincidence{Index: i, IsMeet: isMeet}
		for _, sti := range s.stis {
			tiep := coincidence.NewTiep(s.time, sti, co, s.typ)
			co.Tieps = append(co.Tieps, tiep)
			sti.EntitySTIIndex = index.AddOccurrence(tiep.PrimitiveRep, rec.Entity, tiep)
		}
		if i == 0 {
			first = co
		} else {
			cur.Next = co
		}
		cur = co
	}

	return &coincidence.CoincidenceSequence{Entity: rec.Entity, FirstCo: first}
}

// groupIntoSlots explodes every STI into its two end-points, groups
// end-points sharing (time, type) into a slot (STIs within a slot ordered
// by ascending symbol), and orders slots by time ascending, with FINISH
// breaking ties before START at the same time.
func groupIntoSlots(stis []*coincidence.STI) []slot {
	endpoints := make([]endpoint, 0, len(stis)*2)
	for _, sti := range stis {
		endpoints = append(endpoints,
			endpoint{time: sti.StartTime, typ: coincidence.Start, sti: sti},
			endpoint{time: sti.FinishTime, typ: coincidence.Finish, sti: sti},
		)
	}

	sort.SliceStable(endpoints, func(i, j int) bool {
		a, b := endpoints[i], endpoints[j]
		if a.time != b.time {
			return a.time < b.time
		}
		if a.typ != b.typ {
			return a.typ == coincidence.Finish
		}
		return a.sti.Symbol < b.sti.Symbol
	})

	var slots []slot
	for _, ep := range endpoints {
		if n := len(slots); n > 0 && slots[n-1].time == ep.time && slots[n-1].typ == ep.typ {
			slots[n-1].stis = append(slots[n-1].stis, ep.sti)
			continue
		}
		slots = append(slots, slot{time: ep.time, typ: ep.typ, stis: []*coincidence.STI{ep.sti}})
	}
	return slots
}
