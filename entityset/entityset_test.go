package entityset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := New()
	assert.True(t, s.Add("E3"))
	assert.True(t, s.Add("E1"))
	assert.True(t, s.Add("E2"))
	assert.False(t, s.Add("E1"))

	assert.Equal(t, []string{"E3", "E1", "E2"}, s.Order())
	assert.Equal(t, 3, s.Len())
}

func TestHas(t *testing.T) {
	s := New()
	assert.False(t, s.Has("E1"))
	s.Add("E1")
	assert.True(t, s.Has("E1"))
	assert.False(t, s.Has("E2"))
}

func TestGrowthPreservesOrderAndMembership(t *testing.T) {
	s := New()
	var want []string
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("entity-%d", i)
		want = append(want, id)
		s.Add(id)
	}
	assert.Equal(t, want, s.Order())
	for _, id := range want {
		assert.True(t, s.Has(id))
	}
	assert.False(t, s.Has("entity-9999"))
}
