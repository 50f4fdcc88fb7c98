// Package coincidence defines the shared graph of symbolic time intervals,
// tieps, and coincidences that the rest of the mining engine operates on.
//
// STI, Tiep, Coincidence and CoincidenceSequence form a singly-linked
// chain of time-points, navigated by pointer rather than by an
// index-into-arena scheme: Go structs with pointer fields already give a
// shared subgraph with no deep copy, without needing manual arena
// bookkeeping.
package coincidence

import (
	"strconv"

	"v.io/x/lib/vlog"
)

// TiepType distinguishes the two kinds of interval end-points.
type TiepType int

const (
	// Start marks the beginning of a symbolic time interval.
	Start TiepType = iota
	// Finish marks the end of a symbolic time interval.
	Finish
)

func (t TiepType) rep() byte {
	if t == Start {
		return '+'
	}
	return '-'
}

// Opposite returns the complementing end-point type.
func (t TiepType) Opposite() TiepType {
	if t == Start {
		return Finish
	}
	return Start
}

// STI is a symbolic time interval: a (start, finish, symbol) triple.
type STI struct {
	StartTime  int
	FinishTime int
	Symbol     int

	// EntitySTIIndex is the position of this STI's finish tiep within the
	// ordered list of finish-tiep occurrences for its symbol, within its
	// entity. It is assigned while the coincidence sequence is built (see
	// package seqbuild) and used by the closure checker to compare STI
	// recency across backward- and forward-extension tieps. For a
	// zero-length STI the FINISH slot sorts before the START slot, so the
	// value kept is the start tiep's position instead.
	EntitySTIIndex int
}

// Less orders STIs by (start, finish, symbol), matching the @dataclass(order=True)
// field order of the original STI type.
func (s *STI) Less(o *STI) bool {
	if s.StartTime != o.StartTime {
		return s.StartTime < o.StartTime
	}
	if s.FinishTime != o.FinishTime {
		return s.FinishTime < o.FinishTime
	}
	return s.Symbol < o.Symbol
}

// Tiep is a time-interval end-point: the start or finish of one STI.
type Tiep struct {
	Time        int
	STI         *STI
	Coincidence *Coincidence
	Type        TiepType
	Symbol      int

	// PrimitiveRep is the symbol followed by '+' (Start) or '-' (Finish),
	// e.g. "3+" or "3-".
	PrimitiveRep string

	// OrigTiep is set on shadow copies created by projection: it points at
	// the original tiep living in the initial (unprojected) coincidence
	// chain. nil for tieps that are not shadow copies.
	OrigTiep *Tiep

	// EntityTiepIndex is this tiep's position within the ordered list of
	// same-PrimitiveRep occurrences for its entity (assigned by
	// tiepindex.Index.AddOccurrence).
	EntityTiepIndex int
}

// NewTiep constructs a tiep for sti at the given time/type, deriving Symbol
// and PrimitiveRep, and linking it to its owning coincidence.
func NewTiep(time int, sti *STI, co *Coincidence, typ TiepType) *Tiep {
	symbol := sti.Symbol
	t := &Tiep{
		Time:        time,
		STI:         sti,
		Coincidence: co,
		Type:        typ,
		Symbol:      symbol,
	}
	t.PrimitiveRep = primitiveRep(symbol, typ)
	return t
}

func primitiveRep(symbol int, typ TiepType) string {
	return strconv.Itoa(symbol) + string(typ.rep())
}

// ShadowCopy returns a shallow copy of t suitable for inclusion in a freshly
// allocated partial coincidence, with OrigTiep pointing back at t.
func (t *Tiep) ShadowCopy() *Tiep {
	shadow := *t
	shadow.OrigTiep = t
	return &shadow
}

// Coincidence groups tieps occurring at the same instant, in the same
// entity, all of the same type.
type Coincidence struct {
	Index  int
	IsMeet bool
	IsCo   bool
	Tieps  []*Tiep
	Next   *Coincidence
}

// CoincidenceSequence is one entity's chain of coincidences.
type CoincidenceSequence struct {
	Entity string

	// FirstCo is the first coincidence of the sequence.
	FirstCo *Coincidence

	// PartialCo, when non-nil, is the partially projected coincidence that
	// also happens to be FirstCo: the sequence begins mid-coincidence at
	// the point a prior projection left off.
	PartialCo *Coincidence
}

// Renumber walks the chain starting at first, assigning contiguous 0-based
// indices. It does not touch IsMeet or unlink any coincidence, and returns
// first unchanged.
func Renumber(first *Coincidence) *Coincidence {
	idx := 0
	for c := first; c != nil; c = c.Next {
		c.Index = idx
		idx++
	}
	return first
}

// AssertInvariant logs a fatal diagnostic and exits if the coincidence
// c violates the type-homogeneity invariant (all tieps in a coincidence share
// one type). Invariant violations are programming bugs, never a recoverable
// condition — mirrors encoding/pam/unsafearena.go's vlog.Fatalf on arena
// overflow.
func AssertInvariant(c *Coincidence) {
	if len(c.Tieps) == 0 {
		return
	}
	want := c.Tieps[0].Type
	for _, t := range c.Tieps[1:] {
		if t.Type != want {
			vlog.Fatalf("coincidence %d mixes tiep types", c.Index)
		}
	}
}
