// Package seqdb holds the per-branch mutable state of the mining recursion:
// PatternInstance tracks the growing tiep sequence per entity, SequenceDB
// is the unit of work passed between projection steps, and the small
// lookup structures the candidate generator and closure checker build over
// a SequenceDB (TiepProjector, BackwardExtensionTiep) live here too.
// Grounded on original_source/data_types.py and
// original_source/tirpclo/closure_checking.py.
package seqdb

import (
	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/tirputil"
)

// PatternInstance is the per-record matching state of a pattern being
// grown by the miner: which tieps have matched so far, which STIs are
// waiting on a FINISH, and the bookkeeping needed for maximal-gap and (under
// closed-mining) backward-extension checks.
type PatternInstance struct {
	Tieps                   []*coincidence.Tiep
	SymbolDBIndices         map[int]int
	PreMatched              []*coincidence.STI
	MinimalFinishTime       int
	FirstExpectedFinishTime int

	// NextCoincidences holds, for the i-th tiep in Tieps, the coincidence
	// from which back-scan should resume. Only populated under
	// closed-mining.
	NextCoincidences []*coincidence.Coincidence
}

// NewPatternInstance returns an empty PatternInstance with both time fields
// set to the unmatched sentinel.
func NewPatternInstance() *PatternInstance {
	return &PatternInstance{
		SymbolDBIndices:         make(map[int]int),
		MinimalFinishTime:       tirputil.Inf,
		FirstExpectedFinishTime: tirputil.Inf,
	}
}

// Clone returns a PatternInstance holding independent copies of pi's
// slices and map, so that subsequent calls to Extend on the clone do not
// perturb pi. Mirrors pre_extend_copy.
func (pi *PatternInstance) Clone() *PatternInstance {
	clone := &PatternInstance{
		Tieps:                   append([]*coincidence.Tiep(nil), pi.Tieps...),
		SymbolDBIndices:         make(map[int]int, len(pi.SymbolDBIndices)),
		PreMatched:              append([]*coincidence.STI(nil), pi.PreMatched...),
		MinimalFinishTime:       pi.MinimalFinishTime,
		FirstExpectedFinishTime: pi.FirstExpectedFinishTime,
	}
	for k, v := range pi.SymbolDBIndices {
		clone.SymbolDBIndices[k] = v
	}
	if pi.NextCoincidences != nil {
		clone.NextCoincidences = append([]*coincidence.Coincidence(nil), pi.NextCoincidences...)
	}
	return clone
}

func removeSTI(stis []*coincidence.STI, target *coincidence.STI) []*coincidence.STI {
	for i, s := range stis {
		if s == target {
			return append(stis[:i], stis[i+1:]...)
		}
	}
	return stis
}

func containsSTI(stis []*coincidence.STI, target *coincidence.STI) bool {
	for _, s := range stis {
		if s == target {
			return true
		}
	}
	return false
}

// Extend folds newTiep into the pattern instance. nextCo is recorded into
// NextCoincidences only when closed is true.
func (pi *PatternInstance) Extend(newTiep *coincidence.Tiep, nextCo *coincidence.Coincidence, closed bool) {
	pi.Tieps = append(pi.Tieps, newTiep)
	if closed {
		pi.NextCoincidences = append(pi.NextCoincidences, nextCo)
	}

	if containsSTI(pi.PreMatched, newTiep.STI) {
		pi.PreMatched = removeSTI(pi.PreMatched, newTiep.STI)
		if len(pi.PreMatched) == 0 {
			pi.FirstExpectedFinishTime = tirputil.Inf
		} else {
			min := pi.PreMatched[0].FinishTime
			for _, sti := range pi.PreMatched[1:] {
				if sti.FinishTime < min {
					min = sti.FinishTime
				}
			}
			pi.FirstExpectedFinishTime = min
		}
	} else {
		pi.SymbolDBIndices[newTiep.Symbol] = newTiep.EntityTiepIndex
		pi.PreMatched = append(pi.PreMatched, newTiep.STI)
		if newTiep.STI.FinishTime < pi.FirstExpectedFinishTime {
			pi.FirstExpectedFinishTime = newTiep.STI.FinishTime
		}
	}

	if newTiep.Type == coincidence.Start && newTiep.STI.FinishTime < pi.MinimalFinishTime {
		pi.MinimalFinishTime = newTiep.STI.FinishTime
	}
}
