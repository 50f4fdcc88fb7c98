// Package tirputil holds small helpers shared by the projection, candidate
// generation, and closure checking components.
package tirputil

import (
	"math"

	"github.com/tirpclo/tirpclo/coincidence"
)

// Inf is the "unset"/"no matched STI yet" sentinel used in place of a
// floating-point infinity for minimal_finish_time and
// first_expected_finish_time.
const Inf = math.MaxInt64

// MaxGapHolds reports whether the maximal-gap constraint holds between a
// pattern's minimal finish time observed so far and a candidate tiep being
// considered for extension.
func MaxGapHolds(patternMinimalFinishTime int, candidate *coincidence.Tiep, maximalGap int) bool {
	if patternMinimalFinishTime == Inf {
		return true
	}
	return maximalGap > candidate.STI.StartTime-patternMinimalFinishTime
}
