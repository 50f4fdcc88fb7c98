// Package projection builds the projected sequence database for a
// candidate tiep extension, by advancing
// each surviving entity's coincidence chain past the matched occurrence.
// Grounded on original_source/tirpclo/projection.py.
package projection

import (
	"strings"

	"github.com/tirpclo/tirpclo/closure"
	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tiepindex"
	"github.com/tirpclo/tirpclo/tirputil"
)

const (
	startRep  = "+"
	finishRep = "-"
	meetRep   = "@"
	coRep     = "_"
)

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

// ProjectInitial projects the initial sequence database by tiepPrimitiveRep,
// restricting to supportingEntities. Under closed-mining it also returns
// whether the resulting one-tiep pattern may still be closed, and its
// collected backward-extension tiep lists.
func ProjectInitial(
	initialDB *seqdb.SequenceDB,
	tiepPrimitiveRep string,
	supportingEntities []string,
	index *tiepindex.Index,
	maximalGap int,
	closedMining bool,
) (*seqdb.SequenceDB, bool, map[string][]*seqdb.BackwardExtensionTiep) {
	projected := seqdb.New()
	masterTiep := index.MustGet(tiepPrimitiveRep)

	var cumulative *seqdb.OrderedMap[*seqdb.BackwardExtensionTiep]
	entryIndex := 0

	for _, entry := range initialDB.Entries {
		entityID := entry.Seq.Entity
		if !containsString(supportingEntities, entityID) {
			continue
		}

		entityTiepInstances := masterTiep.TiepOccurrences[entityID]
		entityBeTieps := seqdb.NewOrderedMap[*seqdb.BackwardExtensionTiep]()

		for i, tiepInstance := range entityTiepInstances {
			projectedRecord, ok := projectSeqByTiepInstance(tiepInstance, tiepPrimitiveRep, entry.Seq, entry.Pattern)
			if !ok {
				continue
			}

			extended := seqdb.NewPatternInstance()
			if closedMining {
				extended.NextCoincidences = append(extended.NextCoincidences, entry.Seq.FirstCo)
			}
			extended.Extend(tiepInstance, projectedRecord.FirstCo, closedMining)
			projected.Entries = append(projected.Entries, seqdb.DBEntry{Seq: projectedRecord, Pattern: extended})

			if closedMining {
				var startCo *coincidence.Coincidence
				if i == 0 {
					startCo = entry.Seq.FirstCo
				} else {
					startCo = entityTiepInstances[i-1].Coincidence
				}
				closure.CollectBeTiepsWrtTiepInstance(tiepInstance, startCo, entryIndex, entityBeTieps, cumulative, maximalGap)
			}

			entryIndex++
		}

		cumulative = entityBeTieps
	}

	projected.Support = masterTiep.Support()

	var mayBeClosed bool
	var beTiepsLists map[string][]*seqdb.BackwardExtensionTiep
	if closedMining {
		mayBeClosed, beTiepsLists = closure.FinalizeInitialBeTieps(cumulative)
		projected.PreMatched = []string{strings.Replace(tiepPrimitiveRep, startRep, finishRep, 1)}
	}

	return projected, mayBeClosed, beTiepsLists
}

// ProjectProjected projects an already-projected sequence database further
// by tiep (which may carry a CO or MEET prefix), using projector's
// first-indices to skip directly to surviving records.
func ProjectProjected(
	db *seqdb.SequenceDB,
	tiep string,
	projector *seqdb.TiepProjector,
	index *tiepindex.Index,
	maximalGap int,
	closedMining bool,
) *seqdb.SequenceDB {
	projected := seqdb.New()
	var projectedIndices []int

	baseTiep := tiep
	isMeet, isCo := false, false
	switch {
	case strings.HasPrefix(baseTiep, meetRep):
		isMeet = true
		baseTiep = baseTiep[1:]
	case strings.HasPrefix(baseTiep, coRep):
		isCo = true
		baseTiep = baseTiep[1:]
	}

	masterTiep := index.MustGet(baseTiep)
	isStartTiep := strings.HasSuffix(baseTiep, startRep)
	var supportingEntities []string

	for _, dbEntryIndex := range projector.FirstIndices.Keys() {
		firstIndex, _ := projector.FirstIndices.Get(dbEntryIndex)
		entry := db.Entries[dbEntryIndex]
		entityID := entry.Seq.Entity
		entityTiepInstances := masterTiep.TiepOccurrences[entityID]

		for i := firstIndex; i < len(entityTiepInstances); i++ {
			candidate := entityTiepInstances[i]
			if candidate.Time > entry.Pattern.FirstExpectedFinishTime {
				continue
			}
			if isStartTiep && !tirputil.MaxGapHolds(entry.Pattern.MinimalFinishTime, candidate, maximalGap) {
				break
			}

			projectedRecord, ok := projectSeqByTiepInstance(candidate, tiep, entry.Seq, entry.Pattern)
			if ok {
				if !containsString(supportingEntities, entityID) {
					supportingEntities = append(supportingEntities, entityID)
				}
				extended := entry.Pattern.Clone()
				extended.Extend(candidate, projectedRecord.FirstCo, closedMining)
				projected.Entries = append(projected.Entries, seqdb.DBEntry{Seq: projectedRecord, Pattern: extended})
				projectedIndices = append(projectedIndices, dbEntryIndex)
			}

			if isCo || isMeet || !isStartTiep {
				break
			}
		}
	}

	projected.EntriesPrevIndices = projectedIndices
	projected.Support = len(supportingEntities)

	if closedMining {
		preMatched := append([]string(nil), db.PreMatched...)
		if strings.HasSuffix(baseTiep, startRep) {
			preMatched = append(preMatched, strings.Replace(baseTiep, startRep, finishRep, 1))
		} else {
			preMatched = removeString(preMatched, baseTiep)
		}
		projected.PreMatched = preMatched
	}

	return projected
}

func removeString(ss []string, v string) []string {
	for i, s := range ss {
		if s == v {
			return append(ss[:i], ss[i+1:]...)
		}
	}
	return ss
}

// projectSeqByTiepInstance projects coincidence_seq by the occurrence
// tiepInstance of tiep, returning the new CoincidenceSequence and whether
// projection succeeded (fails if tiepInstance is a FINISH not awaited by
// patternInstance).
func projectSeqByTiepInstance(
	tiepInstance *coincidence.Tiep,
	tiep string,
	seq *coincidence.CoincidenceSequence,
	patternInstance *seqdb.PatternInstance,
) (*coincidence.CoincidenceSequence, bool) {
	firstCo, ok := getProjectedCoincidenceSeq(tiepInstance, tiep, seq, patternInstance)
	if !ok {
		return nil, false
	}

	var partialCo *coincidence.Coincidence
	if firstCo != nil && firstCo.Index == tiepInstance.Coincidence.Index {
		partialCo = firstCo
	}

	return &coincidence.CoincidenceSequence{
		Entity:    seq.Entity,
		FirstCo:   firstCo,
		PartialCo: partialCo,
	}, true
}

func getProjectedCoincidenceSeq(
	tiepInstance *coincidence.Tiep,
	tiep string,
	seq *coincidence.CoincidenceSequence,
	patternInstance *seqdb.PatternInstance,
) (*coincidence.Coincidence, bool) {
	var current *coincidence.Coincidence
	if seq.PartialCo != nil && seq.PartialCo.Index == tiepInstance.Coincidence.Index {
		current = seq.PartialCo
	} else {
		current = tiepInstance.Coincidence
	}

	isCoCandidate := strings.HasPrefix(tiep, coRep)

	for i, t := range current.Tieps {
		found := t == tiepInstance
		if isCoCandidate {
			found = t.OrigTiep == tiepInstance
		}
		if !found {
			continue
		}

		matched := t
		if matched.Type == coincidence.Finish && !isTiepValidForExtension(matched, patternInstance) {
			return nil, false
		}

		newCo := &coincidence.Coincidence{Index: current.Index, IsCo: true}
		for k := i + 1; k < len(current.Tieps); k++ {
			var tk *coincidence.Tiep
			if current.IsCo {
				tk = current.Tieps[k]
			} else {
				shadow := current.Tieps[k].ShadowCopy()
				tk = shadow
			}
			newCo.Tieps = append(newCo.Tieps, tk)
		}
		newCo.Next = current.Next

		if len(newCo.Tieps) == 0 {
			return newCo.Next, true
		}
		return newCo, true
	}

	return nil, false
}

func isTiepValidForExtension(tiep *coincidence.Tiep, patternInstance *seqdb.PatternInstance) bool {
	for _, sti := range patternInstance.PreMatched {
		if sti == tiep.STI {
			return true
		}
	}
	return false
}
