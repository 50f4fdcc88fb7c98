// Package candidate computes, for a projected sequence database, every
// tiep that might
// legally extend the current pattern, along with its support and the
// earliest per-record occurrence a further projection should resume from.
// Grounded on original_source/tirpclo/candidate_generation.py.
package candidate

import (
	"strings"

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

type projectorMap = seqdb.OrderedMap[*seqdb.TiepProjector]

// GetTiepProjectors computes new tiep-projectors for every candidate
// extension of the pattern represented by db, whose last matched tiep was
// lastTiepRep. previousProjectors is nil for the initial (one-tiep)
// pattern.
func GetTiepProjectors(
	db *seqdb.SequenceDB,
	lastTiepRep string,
	previousProjectors *projectorMap,
	index *tiepindex.Index,
	minSupport, maximalGap int,
) *projectorMap {
	if previousProjectors == nil {
		return getInitialTiepProjectors(db, lastTiepRep, maximalGap)
	}

	baseLastTiep := lastTiepRep
	if strings.HasPrefix(baseLastTiep, coRep) || strings.HasPrefix(baseLastTiep, meetRep) {
		baseLastTiep = baseLastTiep[1:]
	}

	projectors := seqdb.NewOrderedMap[*seqdb.TiepProjector]()
	allowedNonSupporting := db.Len() - minSupport

	populateFromRecent(db, baseLastTiep, previousProjectors, index, minSupport, maximalGap, projectors, allowedNonSupporting)

	if strings.HasSuffix(baseLastTiep, startRep) {
		addComplementFinish(db, baseLastTiep, index, projectors, allowedNonSupporting)
	}
	if strings.HasSuffix(baseLastTiep, finishRep) {
		addComplementStart(db, baseLastTiep, index, maximalGap, projectors, allowedNonSupporting)
	}

	for entryIndex, entry := range db.Entries {
		if entry.Seq.FirstCo == nil {
			continue
		}
		addRelevantMeetCoTieps(entry.Seq.FirstCo, entry.Seq.Entity, entryIndex, projectors, entry.Pattern)
	}

	return projectors
}

func addTiepInstance(projectors *projectorMap, tiepRep, entityID string, entryIndex int, firstIndex int, validateFirst bool) {
	p, ok := projectors.Get(tiepRep)
	if !ok {
		p = seqdb.NewTiepProjector()
		projectors.Set(tiepRep, p)
	}
	p.SupportingEntities.Add(entityID)
	if !validateFirst || !p.FirstIndices.Has(entryIndex) {
		p.FirstIndices.Set(entryIndex, firstIndex)
	}
}

func getInitialTiepProjectors(db *seqdb.SequenceDB, lastTiepRep string, maximalGap int) *projectorMap {
	projectors := seqdb.NewOrderedMap[*seqdb.TiepProjector]()

	for entryIndex, entry := range db.Entries {
		cur := entry.Seq.FirstCo
		entityID := entry.Seq.Entity
		foundComplement := false
		beyondGap := false

		for cur != nil {
			if beyondGap && foundComplement {
				break
			}

			isFinishCo := cur.Tieps[0].Type == coincidence.Finish
			if (foundComplement && isFinishCo) || (beyondGap && !isFinishCo) {
				cur = cur.Next
				continue
			}

			for _, t := range cur.Tieps {
				if isFinishCo {
					if lastTiepRep == strings.Replace(t.PrimitiveRep, finishRep, startRep, 1) {
						addTiepInstance(projectors, t.PrimitiveRep, entityID, entryIndex, t.EntityTiepIndex, false)
						foundComplement = true
						break
					}
					continue
				}

				if lastTiepRep == t.PrimitiveRep {
					continue
				}
				if !tirputil.MaxGapHolds(entry.Pattern.MinimalFinishTime, t, maximalGap) {
					beyondGap = true
					break
				}

				rep := t.PrimitiveRep
				if cur.IsCo {
					rep = coRep + rep
				}
				orig := t
				if t.OrigTiep != nil {
					orig = t.OrigTiep
				}
				addTiepInstance(projectors, rep, entityID, entryIndex, orig.EntityTiepIndex, true)
			}

			cur = cur.Next
		}
	}

	return projectors
}

func populateFromRecent(
	db *seqdb.SequenceDB,
	lastTiepRep string,
	previousProjectors *projectorMap,
	index *tiepindex.Index,
	minSupport, maximalGap int,
	projectors *projectorMap,
	allowedNonSupporting int,
) {
	for _, tiep := range previousProjectors.Keys() {
		prevProjector, _ := previousProjectors.Get(tiep)

		if prevProjector.Support() < minSupport {
			continue
		}
		if strings.HasPrefix(tiep, coRep) || strings.HasPrefix(tiep, meetRep) {
			continue
		}
		if lastTiepRep == tiep {
			continue
		}

		masterTiep := index.MustGet(tiep)
		isFinish := strings.HasSuffix(tiep, finishRep)
		nonSupporting := 0

		for entryIndex, entry := range db.Entries {
			if nonSupporting > allowedNonSupporting {
				break
			}

			entityID := entry.Seq.Entity
			cur := entry.Seq.FirstCo
			if cur == nil {
				nonSupporting++
				continue
			}
			if cur.IsCo {
				cur = cur.Next
				if cur == nil {
					nonSupporting++
					continue
				}
			}
			if cur.IsMeet {
				cur = cur.Next
				if cur == nil {
					nonSupporting++
					continue
				}
			}

			startCoIndex := cur.Index
			prevEntryIndex := db.EntriesPrevIndices[entryIndex]
			if !prevProjector.FirstIndices.Has(prevEntryIndex) {
				nonSupporting++
				continue
			}

			tiepInstances := masterTiep.TiepOccurrences[entityID]

			if isFinish {
				tiepIdx := entry.Pattern.SymbolDBIndices[tiepInstances[0].Symbol]
				if tiepInstances[tiepIdx].Coincidence.Index >= startCoIndex {
					addTiepInstance(projectors, tiep, entityID, entryIndex, tiepIdx, false)
				} else {
					nonSupporting++
				}
				continue
			}

			prevStartIndex, _ := prevProjector.FirstIndices.Get(prevEntryIndex)
			found := false
			for i := prevStartIndex; i < len(tiepInstances); i++ {
				if !tirputil.MaxGapHolds(entry.Pattern.MinimalFinishTime, tiepInstances[i], maximalGap) {
					break
				}
				if tiepInstances[i].Coincidence.Index >= startCoIndex {
					addTiepInstance(projectors, tiep, entityID, entryIndex, i, false)
					found = true
					break
				}
			}
			if !found {
				nonSupporting++
			}
		}
	}
}

func addComplementFinish(
	db *seqdb.SequenceDB,
	lastTiepRep string,
	index *tiepindex.Index,
	projectors *projectorMap,
	allowedNonSupporting int,
) {
	finishRepStr := strings.Replace(lastTiepRep, startRep, finishRep, 1)
	masterTiep := index.MustGet(finishRepStr)
	nonSupporting := 0

	for entryIndex, entry := range db.Entries {
		if nonSupporting > allowedNonSupporting {
			break
		}

		entityID := entry.Seq.Entity
		cur := entry.Seq.FirstCo
		if cur == nil {
			nonSupporting++
			continue
		}
		if cur.IsCo {
			cur = cur.Next
			if cur == nil {
				nonSupporting++
				continue
			}
		}

		startCoIndex := cur.Index
		tiepInstances := masterTiep.TiepOccurrences[entityID]
		tiepIdx := entry.Pattern.SymbolDBIndices[tiepInstances[0].Symbol]
		if tiepInstances[tiepIdx].Coincidence.Index >= startCoIndex {
			addTiepInstance(projectors, finishRepStr, entityID, entryIndex, tiepIdx, false)
		} else {
			nonSupporting++
		}
	}
}

func addComplementStart(
	db *seqdb.SequenceDB,
	lastTiepRep string,
	index *tiepindex.Index,
	maximalGap int,
	projectors *projectorMap,
	allowedNonSupporting int,
) {
	startRepStr := strings.Replace(lastTiepRep, finishRep, startRep, 1)
	masterTiep := index.MustGet(startRepStr)
	nonSupporting := 0

	for entryIndex, entry := range db.Entries {
		if nonSupporting > allowedNonSupporting {
			break
		}

		entityID := entry.Seq.Entity
		cur := entry.Seq.FirstCo
		if cur == nil {
			nonSupporting++
			continue
		}
		if cur.IsCo {
			cur = cur.Next
			if cur == nil {
				nonSupporting++
				continue
			}
		}
		if cur.IsMeet {
			cur = cur.Next
			if cur == nil {
				nonSupporting++
				continue
			}
		}

		startCoIndex := cur.Index
		tiepInstances := masterTiep.TiepOccurrences[entityID]
		fromIdx := entry.Pattern.Tieps[len(entry.Pattern.Tieps)-1].EntityTiepIndex + 1
		found := false

		for i := fromIdx; i < len(tiepInstances); i++ {
			if !tirputil.MaxGapHolds(entry.Pattern.MinimalFinishTime, tiepInstances[i], maximalGap) {
				break
			}
			if tiepInstances[i].Coincidence.Index >= startCoIndex {
				addTiepInstance(projectors, startRepStr, entityID, entryIndex, i, false)
				found = true
				break
			}
		}
		if !found {
			nonSupporting++
		}
	}
}

func addRelevantMeetCoTieps(
	currentCoincidence *coincidence.Coincidence,
	entityID string,
	entryIndex int,
	projectors *projectorMap,
	pattern *seqdb.PatternInstance,
) {
	tieps := currentCoincidence.Tieps

	if currentCoincidence.IsCo {
		isFinishCo := tieps[0].Type == coincidence.Finish
		for _, t := range tieps {
			if isFinishCo && !containsSTI(pattern.PreMatched, t.STI) {
				continue
			}
			addTiepInstance(projectors, coRep+t.PrimitiveRep, entityID, entryIndex, t.OrigTiep.EntityTiepIndex, false)
		}

		if currentCoincidence.Next != nil && currentCoincidence.Next.IsMeet {
			next := currentCoincidence.Next
			for _, t := range next.Tieps {
				addTiepInstance(projectors, meetRep+t.PrimitiveRep, entityID, entryIndex, t.EntityTiepIndex, false)
			}
		}
	} else if currentCoincidence.IsMeet {
		for _, t := range tieps {
			addTiepInstance(projectors, meetRep+t.PrimitiveRep, entityID, entryIndex, t.EntityTiepIndex, false)
		}
	}
}

func containsSTI(stis []*coincidence.STI, target *coincidence.STI) bool {
	for _, s := range stis {
		if s == target {
			return true
		}
	}
	return false
}
