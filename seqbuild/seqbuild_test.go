package seqbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/tiepindex"
)

func TestBuildSingleSTIProducesTwoCoincidences(t *testing.T) {
	index := tiepindex.New()
	sti := &coincidence.STI{StartTime: 0, FinishTime: 10, Symbol: 1}
	db := Build([]EntityRecord{{Entity: "e1", STIs: []*coincidence.STI{sti}}}, index)

	assert.Len(t, db.Entries, 1)
	seq := db.Entries[0].Seq
	assert.Equal(t, "e1", seq.Entity)
	assert.NotNil(t, seq.FirstCo)
	assert.Equal(t, 0, seq.FirstCo.Index)
	assert.Len(t, seq.FirstCo.Tieps, 1)
	assert.Equal(t, coincidence.Start, seq.FirstCo.Tieps[0].Type)

	second := seq.FirstCo.Next
	assert.NotNil(t, second)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, coincidence.Finish, second.Tieps[0].Type)
	assert.Nil(t, second.Next)

	assert.Equal(t, 0, sti.EntitySTIIndex, "finish occurrence is the one writing EntitySTIIndex")
}

func TestBuildDetectsMeetCoincidence(t *testing.T) {
	index := tiepindex.New()
	a := &coincidence.STI{StartTime: 0, FinishTime: 10, Symbol: 1}
	b := &coincidence.STI{StartTime: 10, FinishTime: 20, Symbol: 2}
	db := Build([]EntityRecord{{Entity: "e1", STIs: []*coincidence.STI{a, b}}}, index)

	seq := db.Entries[0].Seq
	// slots: [0,START a], [10,FINISH a] then [10,START b] meets, [20,FINISH b]
	co := seq.FirstCo
	assert.Equal(t, coincidence.Start, co.Tieps[0].Type)
	co = co.Next
	assert.Equal(t, coincidence.Finish, co.Tieps[0].Type)
	co = co.Next
	assert.True(t, co.IsMeet)
	assert.Equal(t, coincidence.Start, co.Tieps[0].Type)
}

func TestBuildGroupsCoincidingSTIsBySymbolOrder(t *testing.T) {
	index := tiepindex.New()
	hi := &coincidence.STI{StartTime: 0, FinishTime: 5, Symbol: 9}
	lo := &coincidence.STI{StartTime: 0, FinishTime: 5, Symbol: 2}
	db := Build([]EntityRecord{{Entity: "e1", STIs: []*coincidence.STI{hi, lo}}}, index)

	co := db.Entries[0].Seq.FirstCo
	assert.Len(t, co.Tieps, 2)
	assert.Equal(t, 2, co.Tieps[0].Symbol)
	assert.Equal(t, 9, co.Tieps[1].Symbol)
}

func TestBuildPopulatesTiepIndex(t *testing.T) {
	index := tiepindex.New()
	sti := &coincidence.STI{StartTime: 0, FinishTime: 10, Symbol: 1}
	Build([]EntityRecord{{Entity: "e1", STIs: []*coincidence.STI{sti}}}, index)

	mt, ok := index.Get("1+")
	assert.True(t, ok)
	assert.Equal(t, 1, mt.Support())
	assert.Equal(t, []string{"1+", "1-"}, index.Order())
}
