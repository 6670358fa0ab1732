package community

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/errs"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/testutil"
)

func build(t *testing.T, edges []model.Edge, opts ...graph.BuildOption) *graph.Graph {
	t.Helper()
	g, err := graph.FromNumericEdges(t.Context(), model.SplitShards(edges, 2), opts...)
	require.NoError(t, err)
	return g
}

func TestLouvain_Barbell(t *testing.T) {
	g := build(t, testutil.Barbell(5))

	h, err := Louvain(t.Context(), g)
	require.NoError(t, err)
	require.NotEmpty(t, h.Levels)
	require.Len(t, h.Modularities, len(h.Levels))
	assert.Len(t, h.Levels[0], 10)

	final := h.Final()
	require.Len(t, final, 10)
	for i := 1; i < 5; i++ {
		assert.Equal(t, final[0], final[i], "node %d", i)
		assert.Equal(t, final[5], final[5+i], "node %d", 5+i)
	}
	assert.NotEqual(t, final[0], final[5])
	assert.Equal(t, 2, h.CommunitiesNumber())

	// Two cliques of 10 edges each joined by one edge: 2 * (20/42 - 1/4).
	want := 2 * (20.0/42.0 - 0.25)
	assert.InDelta(t, want, h.Modularities[len(h.Modularities)-1], 1e-9)

	q, err := Modularity(t.Context(), g, final)
	require.NoError(t, err)
	assert.InDelta(t, want, q, 1e-9)

	for i := 1; i < len(h.Modularities); i++ {
		assert.GreaterOrEqual(t, h.Modularities[i], h.Modularities[i-1])
	}
}

func TestLouvain_Weighted(t *testing.T) {
	// A 4-cycle with two heavy opposite edges splits along them.
	g := build(t, []model.Edge{
		model.NewEdge(0, 1).WithWeight(10),
		model.NewEdge(1, 2).WithWeight(0.1),
		model.NewEdge(2, 3).WithWeight(10),
		model.NewEdge(3, 0).WithWeight(0.1),
	}, graph.WithWeights())

	h, err := Louvain(t.Context(), g)
	require.NoError(t, err)

	final := h.Final()
	assert.Equal(t, final[0], final[1])
	assert.Equal(t, final[2], final[3])
	assert.NotEqual(t, final[0], final[2])
}

func TestLouvain_NoEdges(t *testing.T) {
	g := build(t, nil, graph.WithNodesNumber(3))

	h, err := Louvain(t.Context(), g)
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{0, 1, 2}}, h.Levels)
	assert.Equal(t, []float64{0}, h.Modularities)
	assert.Equal(t, 3, h.CommunitiesNumber())
}

func TestLouvain_Errors(t *testing.T) {
	g := build(t, testutil.Path(3))
	ctx := t.Context()

	_, err := Louvain(ctx, g, WithPatience(0))
	assert.ErrorIs(t, err, ErrInvalidPatience)

	_, err = Louvain(ctx, g, WithFirstPhaseMinimumImprovement(math.NaN()))
	assert.ErrorIs(t, err, ErrInvalidImprovement)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = Louvain(ctx, g, WithRecursionMinimumImprovement(math.Inf(1)))
	assert.ErrorIs(t, err, ErrInvalidImprovement)

	directed := build(t, testutil.Path(3), graph.WithDirected(true))
	_, err = Louvain(ctx, directed)
	assert.ErrorIs(t, err, graph.ErrDirected)

	_, err = Modularity(ctx, g, []uint32{0})
	assert.ErrorIs(t, err, ErrInvalidMembership)
}

func TestHierarchy_Final(t *testing.T) {
	h := &Hierarchy{Levels: [][]uint32{{0, 0, 1, 2}, {0, 1, 1}}}
	assert.Equal(t, []uint32{0, 0, 1, 1}, h.Final())
	assert.Equal(t, 2, h.CommunitiesNumber())
	assert.Nil(t, (&Hierarchy{}).Final())
}

func TestCompact(t *testing.T) {
	out, n := compact([]uint32{7, 7, 3, 9, 3})
	assert.Equal(t, []uint32{0, 0, 1, 2, 1}, out)
	assert.Equal(t, uint32(3), n)
}
