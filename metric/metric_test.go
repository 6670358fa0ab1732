package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersection(t *testing.T) {
	a := []uint32{1, 3, 5, 7, 9}
	b := []uint32{2, 3, 4, 7, 10}

	var common []uint32
	Intersection(a, b, func(v uint32) { common = append(common, v) })
	assert.Equal(t, []uint32{3, 7}, common)
	assert.Equal(t, 2, IntersectionSize(a, b))
	assert.Equal(t, 0, IntersectionSize(a, nil))
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint32
		want float64
	}{
		{"identical", []uint32{1, 2}, []uint32{1, 2}, 1},
		{"disjoint", []uint32{1}, []uint32{2}, 0},
		{"half", []uint32{1, 2, 3}, []uint32{2, 3, 4}, 0.5},
		{"empty", nil, []uint32{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestAdamicAdarAndResourceAllocation(t *testing.T) {
	degrees := map[uint32]uint32{2: 1, 3: 4, 4: math.MaxUint32}
	degree := func(v uint32) uint32 { return degrees[v] }

	a := []uint32{2, 3}
	b := []uint32{2, 3, 5}

	// Node 2 has degree 1 and is skipped by Adamic-Adar.
	assert.InDelta(t, 1/math.Log(4), AdamicAdar(a, b, degree), 1e-12)
	assert.InDelta(t, 1+0.25, ResourceAllocation(a, b, degree), 1e-12)

	assert.Zero(t, AdamicAdar(nil, b, degree))
	assert.Zero(t, ResourceAllocation(a, nil, degree))
}

func TestPreferentialAttachment(t *testing.T) {
	assert.Equal(t, 6.0, PreferentialAttachment(2, 3, 0))
	assert.InDelta(t, 6.0/16.0, PreferentialAttachment(2, 3, 4), 1e-12)
}
