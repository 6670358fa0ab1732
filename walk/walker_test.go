package walk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/errs"
	"github.com/hupe1980/graphgo/internal/rng"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/testutil"
)

func build(t *testing.T, edges []model.Edge, opts ...graph.BuildOption) *graph.Graph {
	t.Helper()
	g, err := graph.FromNumericEdges(t.Context(), model.SplitShards(edges, 2), opts...)
	require.NoError(t, err)
	return g
}

func walker(t *testing.T, g *graph.Graph, walkLength uint64, opts ...Option) *Walker {
	t.Helper()
	params, err := NewParameters(walkLength, opts...)
	require.NoError(t, err)
	w, err := NewWalker(g, params)
	require.NoError(t, err)
	return w
}

func assertValidWalk(t *testing.T, g *graph.Graph, walk []model.NodeID) {
	t.Helper()
	for i := 1; i < len(walk); i++ {
		assert.True(t, g.HasEdge(walk[i-1], walk[i]), "step %d: no edge %d -> %d", i, walk[i-1], walk[i])
	}
}

func TestNewParameters(t *testing.T) {
	p, err := NewParameters(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultIterations), p.Iterations)
	assert.Equal(t, DefaultWindowSize, p.WindowSize)
	assert.Equal(t, uint32(DefaultMaxNeighbours), p.MaxNeighbours)
	assert.True(t, p.IsFirstOrder())

	p, err = NewParameters(10, WithoutMaxNeighbours(), WithExploreWeight(2))
	require.NoError(t, err)
	assert.Zero(t, p.MaxNeighbours)
	assert.False(t, p.IsFirstOrder())

	tests := []struct {
		name string
		opts []Option
		len  uint64
		want error
	}{
		{"zero length", nil, 0, ErrInvalidWalkLength},
		{"zero iterations", []Option{WithIterations(0)}, 5, ErrInvalidIterations},
		{"zero window", []Option{WithWindowSize(0)}, 5, ErrInvalidWindowSize},
		{"zero return weight", []Option{WithReturnWeight(0)}, 5, ErrInvalidBias},
		{"negative explore weight", []Option{WithExploreWeight(-1)}, 5, ErrInvalidBias},
		{"infinite edge type weight", []Option{WithChangeEdgeTypeWeight(math.Inf(1))}, 5, ErrInvalidBias},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParameters(tt.len, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
		})
	}
}

func TestSingleWalk_Path(t *testing.T) {
	g := build(t, testutil.Path(4))
	w := walker(t, g, 4)

	for i := range uint64(50) {
		walk, err := w.SingleWalk(0, i)
		require.NoError(t, err)
		require.Len(t, walk, 4)
		assert.Equal(t, model.NodeID(0), walk[0])
		assert.Equal(t, model.NodeID(1), walk[1])
		assertValidWalk(t, g, walk)
	}

	_, err := w.SingleWalk(4, 0)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestSingleWalk_Trap(t *testing.T) {
	g := build(t, testutil.Path(3), graph.WithDirected(true))
	w := walker(t, g, 5)

	walk, err := w.SingleWalk(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.NodeID{2}, walk)

	walk, err = w.SingleWalk(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.NodeID{0, 1, 2}, walk)
}

func TestWalks(t *testing.T) {
	edges := testutil.NewRNG(4).RandomWeights(testutil.NewRNG(3).RandomSparse(80, 400), true)
	g := build(t, edges, graph.WithWeights(), graph.WithNodesNumber(80))

	params, err := NewParameters(12, WithIterations(3), WithReturnWeight(0.5), WithExploreWeight(2))
	require.NoError(t, err)

	w1, err := NewWalker(g, params, WithWorkers(1))
	require.NoError(t, err)
	w4, err := NewWalker(g, params, WithWorkers(4))
	require.NoError(t, err)

	walks, err := w1.Walks(t.Context())
	require.NoError(t, err)
	require.Len(t, walks, 3*w1.StartsNumber())
	assert.Equal(t, int(g.NodesNumber()-g.TrapNodesNumber()), w1.StartsNumber())

	again, err := w4.Walks(t.Context())
	require.NoError(t, err)
	assert.Equal(t, walks, again)

	for i, walk := range walks {
		assert.Equal(t, walks[i%w1.StartsNumber()][0], walk[0])
		assert.LessOrEqual(t, len(walk), 12)
		assertValidWalk(t, g, walk)
	}

	var iterated [][]model.NodeID
	for i, walk := range w4.Iter(t.Context()) {
		assert.Equal(t, uint64(len(iterated)), i)
		iterated = append(iterated, walk)
	}
	assert.Equal(t, walks, iterated)

	single, err := w4.SingleWalk(walks[7][0], 7)
	require.NoError(t, err)
	assert.Equal(t, walks[7], single)
}

func TestWalks_RandomState(t *testing.T) {
	g := build(t, testutil.Complete(20))

	a, err := walker(t, g, 10, WithRandomState(1)).Walks(t.Context())
	require.NoError(t, err)
	b, err := walker(t, g, 10, WithRandomState(2)).Walks(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIter_Break(t *testing.T) {
	g := build(t, testutil.Complete(10))
	w := walker(t, g, 5, WithIterations(100))

	var n int
	for range w.Iter(t.Context()) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestRandomWalks(t *testing.T) {
	g := build(t, testutil.Barbell(5))
	w := walker(t, g, 8)

	walks, err := w.RandomWalks(t.Context(), 40)
	require.NoError(t, err)
	require.Len(t, walks, 40)
	for _, walk := range walks {
		assert.Len(t, walk, 8)
		assertValidWalk(t, g, walk)
	}

	again, err := w.RandomWalks(t.Context(), 40)
	require.NoError(t, err)
	assert.Equal(t, walks, again)

	_, err = w.RandomWalks(t.Context(), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	empty := build(t, nil, graph.WithNodesNumber(3))
	_, err = walker(t, empty, 4).RandomWalks(t.Context(), 1)
	assert.ErrorIs(t, err, ErrNoEdges)
}

func TestWalks_ReturnBias(t *testing.T) {
	g := build(t, testutil.Path(4))
	w := walker(t, g, 3, WithReturnWeight(0.001))

	returned := 0
	for i := range uint64(100) {
		walk, err := w.SingleWalk(0, i)
		require.NoError(t, err)
		if walk[2] == 0 {
			returned++
		}
	}
	assert.Greater(t, returned, 90)
}

func TestWalks_NodeTypeBias(t *testing.T) {
	g := build(t, testutil.Star(5), graph.WithNodeTypes(map[string][]string{
		"0": {"a"}, "1": {"a"}, "2": {"a"}, "3": {"b"}, "4": {"b"},
	}))
	w := walker(t, g, 2, WithChangeNodeTypeWeight(1000))

	same := 0
	for i := range uint64(100) {
		walk, err := w.SingleWalk(0, i)
		require.NoError(t, err)
		if walk[1] == 1 || walk[1] == 2 {
			same++
		}
	}
	assert.Greater(t, same, 95)
}

func TestWalks_EdgeTypeBias(t *testing.T) {
	g := build(t, []model.Edge{
		model.NewEdge(0, 1).WithEdgeType(0),
		model.NewEdge(1, 2).WithEdgeType(0),
		model.NewEdge(1, 3).WithEdgeType(1),
	}, graph.WithDirected(true), graph.WithEdgeTypes())
	w := walker(t, g, 3, WithChangeEdgeTypeWeight(1000))

	kept := 0
	for i := range uint64(200) {
		walk, err := w.SingleWalk(0, i)
		require.NoError(t, err)
		require.Len(t, walk, 3)
		if walk[2] == 2 {
			kept++
		}
	}
	assert.Greater(t, kept, 190)
}

func TestCandidates_Reservoir(t *testing.T) {
	g := build(t, testutil.Star(50))
	w := walker(t, g, 5, WithMaxNeighbours(3), WithReturnWeight(2))

	start, end := g.UncheckedEdgeRange(0)
	var s scratch
	stream := rng.NewStream(9)
	w.candidates(&s, &stream, 0, start, end)

	require.Len(t, s.edges, 3)
	require.Len(t, s.dsts, 3)
	assert.IsIncreasing(t, s.edges)
	for i, e := range s.edges {
		src, dst := g.UncheckedNodeIDsFromEdgeID(e)
		assert.Equal(t, model.NodeID(0), src)
		assert.Equal(t, dst, s.dsts[i])
	}

	walk, err := w.SingleWalk(0, 0)
	require.NoError(t, err)
	assertValidWalk(t, g, walk)
}

func TestDenseNodeMapping(t *testing.T) {
	g := build(t, []model.Edge{model.NewEdge(0, 1), model.NewEdge(3, 4)}, graph.WithNodesNumber(5))
	mapping := g.DenseNodeMapping()

	w := walker(t, g, 6, WithDenseNodeMapping(mapping))
	walks, err := w.Walks(t.Context())
	require.NoError(t, err)
	for _, walk := range walks {
		for _, n := range walk {
			assert.Less(t, n, model.NodeID(4))
		}
	}
	// 3 and 4 are mapped onto 2 and 3.
	assert.Equal(t, model.NodeID(2), walks[2][0])

	walk, err := w.SingleWalk(3, 0)
	require.NoError(t, err)
	assert.Equal(t, model.NodeID(2), walk[0])

	// Singleton 2 may stay unmapped, but cannot seed a walk.
	_, err = w.SingleWalk(2, 0)
	assert.ErrorIs(t, err, ErrInvalidDenseMapping)

	for name, m := range map[string]map[model.NodeID]model.NodeID{
		"missing":   {0: 0, 1: 1, 3: 2},
		"duplicate": {0: 0, 1: 1, 3: 2, 4: 2},
	} {
		t.Run(name, func(t *testing.T) {
			params, err := NewParameters(6, WithDenseNodeMapping(m))
			require.NoError(t, err)
			_, err = NewWalker(g, params)
			assert.ErrorIs(t, err, ErrInvalidDenseMapping)
		})
	}
}
