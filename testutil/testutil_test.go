package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/graphgo/model"
)

func TestFixtures(t *testing.T) {
	assert.Len(t, Path(4), 3)
	assert.Empty(t, Path(1))
	assert.Len(t, Star(5), 4)
	assert.Len(t, Complete(5), 10)

	barbell := Barbell(4)
	assert.Len(t, barbell, 6+6+1)
	assert.Equal(t, model.NewEdge(3, 4), barbell[len(barbell)-1])
}

func TestRandomSparse(t *testing.T) {
	a := NewRNG(4711).RandomSparse(50, 200)
	b := NewRNG(4711).RandomSparse(50, 200)
	assert.Equal(t, a, b)

	seen := map[[2]model.NodeID]bool{}
	for _, e := range a {
		assert.NotEqual(t, e.Src, e.Dst)
		assert.False(t, seen[[2]model.NodeID{e.Src, e.Dst}])
		seen[[2]model.NodeID{e.Src, e.Dst}] = true
	}
}

func TestRandomWeights(t *testing.T) {
	edges := append(Path(3), Reversed(Path(3))...)
	weighted := NewRNG(1).RandomWeights(edges, true)

	assert.Equal(t, weighted[0].Weight, weighted[2].Weight)
	assert.Equal(t, weighted[1].Weight, weighted[3].Weight)
	for _, e := range weighted {
		assert.True(t, e.HasWeight)
		assert.Greater(t, e.Weight, 0.0)
		assert.LessOrEqual(t, e.Weight, 1.0)
	}
}

func TestRNG_Reset(t *testing.T) {
	r := NewRNG(7)
	first := r.IntN(1000)
	r.Reset()
	assert.Equal(t, first, r.IntN(1000))
	assert.Equal(t, uint64(7), r.Seed())
}
