// Package closure decides whether a TIRP discovered by the miner may be
// closed, by tracking
// backward-extension (BE) tieps during back-scan and matching them against
// forward-extension (FE) candidates. Grounded on
// original_source/tirpclo/closure_checking.py.
package closure

import (
	"strings"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tirputil"
)

const (
	startRep  = "+"
	finishRep = "-"
	meetRep   = "@"
	coRep     = "_"
)

// beTiepMap is an insertion-ordered map from full tiep rep (prefix +
// primitive rep) to the BackwardExtensionTiep accumulated for it so far.
type beTiepMap = seqdb.OrderedMap[*seqdb.BackwardExtensionTiep]

// MayTirpBeClosed reports whether the TIRP represented by patternSeqDB may
// still be closed, given the forward-extension candidates in projectors and
// the backward-extension tieps already collected in beTiepsLists.
func MayTirpBeClosed(
	patternSeqDB *seqdb.SequenceDB,
	projectors *seqdb.OrderedMap[*seqdb.TiepProjector],
	beTiepsLists map[string][]*seqdb.BackwardExtensionTiep,
) bool {
	for _, key := range projectors.Keys() {
		projector, _ := projectors.Get(key)
		if patternSeqDB.Support != projector.Support() {
			continue
		}
		if strings.HasSuffix(key, startRep) {
			return false
		}

		primitiveRep := key
		if strings.HasPrefix(primitiveRep, coRep) {
			primitiveRep = primitiveRep[len(coRep):]
		}
		complementStartRep := strings.Replace(primitiveRep, finishRep, startRep, 1)
		if beTieps, ok := beTiepsLists[complementStartRep]; ok {
			if doBeFeMatchInAllEntities(beTieps, projector, patternSeqDB) {
				return false
			}
		}
	}
	return true
}

func doBeFeMatchInAllEntities(
	startTiepBeTieps []*seqdb.BackwardExtensionTiep,
	finishFEProjector *seqdb.TiepProjector,
	patternSeqDB *seqdb.SequenceDB,
) bool {
	for _, beTiep := range startTiepBeTieps {
		var matching []string
		for _, dbEntryIndex := range finishFEProjector.FirstIndices.Keys() {
			finishFirstIndex, _ := finishFEProjector.FirstIndices.Get(dbEntryIndex)
			stis, ok := beTiep.STIsPerEntry[dbEntryIndex]
			if !ok {
				continue
			}
			entityID := patternSeqDB.Entries[dbEntryIndex].Seq.Entity
			if containsString(matching, entityID) {
				continue
			}
			for _, sti := range stis {
				if sti.EntitySTIIndex >= finishFirstIndex {
					matching = append(matching, entityID)
					break
				}
			}
		}
		if patternSeqDB.Support == len(matching) {
			return true
		}
	}
	return false
}

func doBeBeMatchInAllEntities(
	startTiepBeTieps []*seqdb.BackwardExtensionTiep,
	finishBeTiep *seqdb.BackwardExtensionTiep,
	patternSeqDB *seqdb.SequenceDB,
) bool {
	for _, beTiep := range startTiepBeTieps {
		var matching []string
		for _, dbEntryIndex := range finishBeTiep.Entries() {
			finishSTIs := finishBeTiep.STIsPerEntry[dbEntryIndex]
			stis, ok := beTiep.STIsPerEntry[dbEntryIndex]
			if !ok {
				continue
			}
			entityID := patternSeqDB.Entries[dbEntryIndex].Seq.Entity
			if containsString(matching, entityID) {
				continue
			}
			for _, finishSTI := range finishSTIs {
				if containsSTI(stis, finishSTI) {
					matching = append(matching, entityID)
					break
				}
			}
		}
		if patternSeqDB.Support == len(matching) {
			return true
		}
	}
	return false
}

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func containsSTI(stis []*coincidence.STI, v *coincidence.STI) bool {
	for _, s := range stis {
		if s == v {
			return true
		}
	}
	return false
}

// BackScan walks, for every position in the pattern's tieps, the
// coincidences skipped since the previous occurrence, collecting
// backward-extension candidates and intersecting them across supporting
// entities. It reports whether the TIRP may still be closed, plus the
// finalized per-primitive-rep BE tiep lists.
func BackScan(patternSeqDB *seqdb.SequenceDB, maximalGap int) (bool, map[string][]*seqdb.BackwardExtensionTiep) {
	beTiepsLists := make(map[string][]*seqdb.BackwardExtensionTiep)
	numTieps := len(patternSeqDB.Entries[0].Pattern.Tieps)

	for i := 0; i < numTieps; i++ {
		var cumulative *beTiepMap
		var entityAcc *beTiepMap
		entryIndex := 0

		for idx, entry := range patternSeqDB.Entries {
			if idx == 0 || entry.Seq.Entity != patternSeqDB.Entries[idx-1].Seq.Entity {
				cumulative = entityAcc
				if cumulative != nil && cumulative.Len() == 0 {
					break
				}
				entityAcc = seqdb.NewOrderedMap[*seqdb.BackwardExtensionTiep]()
			}

			tiepInstance := entry.Pattern.Tieps[i]
			current := entry.Pattern.NextCoincidences[i]

			prefix := "*"
			if current.IsCo {
				prefix = coRep
			} else if current.IsMeet {
				prefix = meetRep
			}

			for current.Index != tiepInstance.Coincidence.Index {
				if current.Index == tiepInstance.Coincidence.Index-1 && tiepInstance.Coincidence.IsMeet {
					for _, ct := range current.Tieps {
						fullRep := prefix + meetRep + ct.PrimitiveRep
						addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityAcc, cumulative, maximalGap, false)
					}
				} else {
					for _, ct := range current.Tieps {
						fullRep := prefix + "*" + ct.PrimitiveRep
						addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityAcc, cumulative, maximalGap, true)
					}
				}
				if current.IsCo && current.Next != nil && current.Next.IsMeet {
					prefix = meetRep
				} else {
					prefix = "*"
				}
				current = current.Next
			}

			for _, ct := range current.Tieps {
				if ct == tiepInstance || tiepInstance == ct.OrigTiep {
					break
				}
				fullRep := prefix + coRep + ct.PrimitiveRep
				addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityAcc, cumulative, maximalGap, false)
			}
			entryIndex++
		}

		cumulative = entityAcc
		if cumulative.Len() == 0 {
			continue
		}
		if !FinalizeIthBeforeBeTieps(cumulative, beTiepsLists, patternSeqDB) {
			return false, beTiepsLists
		}
	}

	return true, beTiepsLists
}

// FinalizeIthBeforeBeTieps folds the i-th-position cumulative BE tieps into
// beTiepsLists, and reports whether the branch may still be closed (a
// FINISH BE tiep whose complementing START BE tiep already covers the same
// STIs in every entity rules it out).
func FinalizeIthBeforeBeTieps(
	cumulative *beTiepMap,
	beTiepsLists map[string][]*seqdb.BackwardExtensionTiep,
	patternSeqDB *seqdb.SequenceDB,
) bool {
	for _, fullRep := range cumulative.Keys() {
		beTiep, _ := cumulative.Get(fullRep)
		primitiveRep := fullRep[2:]
		if strings.HasSuffix(primitiveRep, startRep) {
			beTiepsLists[primitiveRep] = append(beTiepsLists[primitiveRep], beTiep)
		}
	}

	for _, fullRep := range cumulative.Keys() {
		beTiep, _ := cumulative.Get(fullRep)
		primitiveRep := fullRep[2:]
		if strings.HasSuffix(primitiveRep, finishRep) {
			startRepKey := strings.Replace(primitiveRep, finishRep, startRep, 1)
			if startBeTieps, ok := beTiepsLists[startRepKey]; ok {
				if doBeBeMatchInAllEntities(startBeTieps, beTiep, patternSeqDB) {
					return false
				}
			}
		}
	}
	return true
}

// CollectBeTiepsWrtTiepInstance gathers backward-extension candidates for
// one occurrence of the projecting tiep, starting from currentCoincidence,
// intersecting against cumulative (the previous entity's accumulated set,
// nil for the first entity processed).
func CollectBeTiepsWrtTiepInstance(
	tiepInstance *coincidence.Tiep,
	currentCoincidence *coincidence.Coincidence,
	entryIndex int,
	entityBeTieps *beTiepMap,
	cumulativeBeTieps *beTiepMap,
	maximalGap int,
) {
	for _, tiepRep := range entityBeTieps.Keys() {
		if strings.HasPrefix(tiepRep, coRep) || strings.HasPrefix(tiepRep, meetRep) {
			continue
		}
		beTiep, _ := entityBeTieps.Get(tiepRep)
		stis, ok := beTiep.STIsPerEntry[entryIndex-1]
		if !ok {
			continue
		}
		for _, sti := range stis {
			if tirputil.MaxGapHolds(sti.FinishTime, tiepInstance, maximalGap) {
				beTiep.AddSTI(entryIndex, sti)
			}
		}
	}

	current := currentCoincidence
	for current.Index != tiepInstance.Coincidence.Index {
		if current.Index == tiepInstance.Coincidence.Index-1 && tiepInstance.Coincidence.IsMeet {
			for _, ct := range current.Tieps {
				fullRep := meetRep + ct.PrimitiveRep
				addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityBeTieps, cumulativeBeTieps, maximalGap, false)
			}
		} else {
			for _, ct := range current.Tieps {
				fullRep := "*" + ct.PrimitiveRep
				addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityBeTieps, cumulativeBeTieps, maximalGap, true)
			}
		}
		current = current.Next
	}

	for _, ct := range current.Tieps {
		if ct == tiepInstance {
			break
		}
		fullRep := coRep + ct.PrimitiveRep
		addToEntityBeTieps(tiepInstance, ct, fullRep, entryIndex, entityBeTieps, cumulativeBeTieps, maximalGap, false)
	}
}

func addToEntityBeTieps(
	projectedTiepInstance *coincidence.Tiep,
	currentTiep *coincidence.Tiep,
	tiepFullRep string,
	entryIndex int,
	entityBeTieps *beTiepMap,
	cumulativeBeTieps *beTiepMap,
	maximalGap int,
	checkGap bool,
) {
	if cumulativeBeTieps != nil && !cumulativeBeTieps.Has(tiepFullRep) {
		return
	}
	if checkGap && !tirputil.MaxGapHolds(currentTiep.STI.FinishTime, projectedTiepInstance, maximalGap) {
		return
	}

	if !entityBeTieps.Has(tiepFullRep) {
		if cumulativeBeTieps == nil {
			entityBeTieps.Set(tiepFullRep, seqdb.NewBackwardExtensionTiep())
		} else {
			existing, _ := cumulativeBeTieps.Get(tiepFullRep)
			entityBeTieps.Set(tiepFullRep, existing)
		}
	}
	beTiep, _ := entityBeTieps.Get(tiepFullRep)
	beTiep.AddSTI(entryIndex, currentTiep.STI)
}

// FinalizeInitialBeTieps finalizes the BE tieps collected for a one-tiep
// (initial) pattern. Any FINISH-typed BE tiep immediately rules the branch
// out, since nothing can have closed it yet.
func FinalizeInitialBeTieps(cumulativeBeTieps *beTiepMap) (bool, map[string][]*seqdb.BackwardExtensionTiep) {
	beTiepsLists := make(map[string][]*seqdb.BackwardExtensionTiep)

	for _, fullRep := range cumulativeBeTieps.Keys() {
		beTiep, _ := cumulativeBeTieps.Get(fullRep)
		primitiveRep := fullRep[1:]

		if strings.HasSuffix(primitiveRep, startRep) {
			beTiepsLists[primitiveRep] = append(beTiepsLists[primitiveRep], beTiep)
		} else {
			return false, beTiepsLists
		}
	}
	return true, beTiepsLists
}
