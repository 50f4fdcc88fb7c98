package seqdb

import "github.com/tirpclo/tirpclo/coincidence"

// DBEntry pairs one entity's (possibly projected) coincidence sequence with
// the pattern instance matched against it so far.
type DBEntry struct {
	Seq     *coincidence.CoincidenceSequence
	Pattern *PatternInstance
}

// SequenceDB is the unit of work the Projector, Candidate Generator, Miner
// and Closure Checker all operate over: one record per matched instance of
// the pattern represented by the DB. An entity may contribute several
// records; Support counts distinct entities.
type SequenceDB struct {
	Entries []DBEntry

	// EntriesPrevIndices holds, for non-initial DBs, the index in the
	// parent DB that each entry was derived from. nil for the initial DB.
	EntriesPrevIndices []int

	Support int

	// PreMatched holds primitive finish-tiep reps still awaited by the
	// pattern. Only populated under closed-mining.
	PreMatched []string
}

// New returns an empty SequenceDB.
func New() *SequenceDB {
	return &SequenceDB{}
}

// Len returns the number of records in the DB.
func (db *SequenceDB) Len() int {
	return len(db.Entries)
}

// FilterInfrequentTieps walks every coincidence chain in the initial DB and
// removes tieps whose primitive_rep is no longer present in live, deleting
// emptied coincidences and renumbering the chain. Grounded on
// SequenceDB.filter_infrequent_tieps_from_initial_seq_db in
// original_source/data_types.py.
func (db *SequenceDB) FilterInfrequentTieps(live map[string]bool) {
	for _, entry := range db.Entries {
		seq := entry.Seq
		var prev *coincidence.Coincidence
		removed := 0
		removedRecent := false

		for cur := seq.FirstCo; cur != nil; {
			next := cur.Next
			filtered := cur.Tieps[:0:0]
			for _, t := range cur.Tieps {
				if live[t.PrimitiveRep] {
					filtered = append(filtered, t)
				}
			}
			cur.Tieps = filtered

			if len(cur.Tieps) == 0 {
				removed++
				removedRecent = true
				if prev != nil {
					prev.Next = next
				}
			} else {
				cur.Index -= removed
				if removedRecent {
					cur.IsMeet = false
				}
				if prev == nil {
					seq.FirstCo = cur
				}
				removedRecent = false
				prev = cur
			}
			cur = next
		}
	}
}
