// Package miner implements the depth-first recursion that grows frequent
// patterns one tiep at a time, emitting each
// balanced pattern it encounters (subject to closure under closed-mining).
// Grounded on original_source/tirpclo/main_algorithm.py.
package miner

import (
	"strings"

	"github.com/tirpclo/tirpclo/candidate"
	"github.com/tirpclo/tirpclo/closure"
	"github.com/tirpclo/tirpclo/projection"
	"github.com/tirpclo/tirpclo/seqdb"
	"github.com/tirpclo/tirpclo/tiepindex"
)

// TirpWriter receives each discovered TIRP's sequence database.
type TirpWriter interface {
	WriteTIRP(db *seqdb.SequenceDB)
}

// DiscoverTirps prunes infrequent primitives from index and initialDB, then
// drives the DFS from every surviving START primitive.
func DiscoverTirps(
	index *tiepindex.Index,
	initialDB *seqdb.SequenceDB,
	minSupport, maximalGap int,
	writer TirpWriter,
	closedMining bool,
) {
	index.PruneInfrequent(minSupport)
	live := make(map[string]bool, len(index.Order()))
	for _, rep := range index.Order() {
		live[rep] = true
	}
	initialDB.FilterInfrequentTieps(live)

	for _, tiep := range index.Order() {
		if !strings.HasSuffix(tiep, "+") {
			continue
		}
		masterTiep := index.MustGet(tiep)
		projectedDB, mayBeClosed, beTiepsLists := projection.ProjectInitial(
			initialDB, tiep, masterTiep.SupportingEntities(), index, maximalGap, closedMining,
		)
		if !closedMining || mayBeClosed {
			extendTirp(index, projectedDB, tiep, nil, minSupport, maximalGap, writer, beTiepsLists, closedMining)
		}
	}
}

func extendTirp(
	index *tiepindex.Index,
	patternSeqDB *seqdb.SequenceDB,
	patternLastTiep string,
	previousProjectors *seqdb.OrderedMap[*seqdb.TiepProjector],
	minSupport, maximalGap int,
	writer TirpWriter,
	beTiepsLists map[string][]*seqdb.BackwardExtensionTiep,
	closedMining bool,
) {
	projectors := candidate.GetTiepProjectors(patternSeqDB, patternLastTiep, previousProjectors, index, minSupport, maximalGap)

	if isBalanced(patternSeqDB) {
		if !closedMining || closure.MayTirpBeClosed(patternSeqDB, projectors, beTiepsLists) {
			writer.WriteTIRP(patternSeqDB)
		}
	}

	for _, tiep := range projectors.Keys() {
		projector, _ := projectors.Get(tiep)
		if projector.Support() < minSupport {
			continue
		}

		if closedMining && strings.HasSuffix(tiep, "-") {
			primitiveRep := tiep
			if strings.HasPrefix(primitiveRep, "_") {
				primitiveRep = primitiveRep[1:]
			}
			if !containsString(patternSeqDB.PreMatched, primitiveRep) {
				continue
			}
		}

		projectedDB := projection.ProjectProjected(patternSeqDB, tiep, projector, index, maximalGap, closedMining)

		if projectedDB.Support >= minSupport {
			mayBeClosed := true
			var currentBeTiepsLists map[string][]*seqdb.BackwardExtensionTiep
			if closedMining {
				mayBeClosed, currentBeTiepsLists = closure.BackScan(projectedDB, maximalGap)
			}
			if mayBeClosed {
				extendTirp(index, projectedDB, tiep, projectors, minSupport, maximalGap, writer, currentBeTiepsLists, closedMining)
			}
		}
	}
}

func isBalanced(db *seqdb.SequenceDB) bool {
	return len(db.Entries[0].Pattern.PreMatched) == 0
}

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
