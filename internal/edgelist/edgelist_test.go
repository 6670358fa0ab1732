package edgelist

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/errs"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/internal/vocab"
	"github.com/hupe1980/graphgo/model"
)

func nodes(n uint64) func() uint64 {
	return func() uint64 { return n }
}

func pairs(t *testing.T, res *Result) [][2]uint32 {
	t.Helper()
	var out [][2]uint32
	for _, code := range res.Edges.Iter(0, res.Edges.Len()) {
		s, d := edgecode.Decode(code, res.NodeBits)
		out = append(out, [2]uint32{s, d})
	}
	return out
}

func TestBuild_DirectedUnsorted(t *testing.T) {
	shards := []model.Shard[Tuple]{model.SliceShard([]Tuple{
		{Src: 1, Dst: 2, Weight: 2.0},
		{Src: 0, Dst: 1, Weight: 1.0},
	})}

	res, err := Build(t.Context(), Config{
		Flags:       Flags{Directed: true, EdgesNumber: -1},
		Columns:     Columns{Weights: true},
		NodesNumber: nodes(3),
	}, shards)
	require.NoError(t, err)

	assert.Equal(t, [][2]uint32{{0, 1}, {1, 2}}, pairs(t, res))
	assert.Equal(t, []float64{1.0, 2.0}, res.Weights)
	assert.Nil(t, res.EdgeTypes)
	assert.Equal(t, uint8(2), res.NodeBits)
}

func TestBuild_UndirectedSymmetrization(t *testing.T) {
	shards := model.SplitShards([]Tuple{
		{Src: 0, Dst: 1, Weight: 1},
		{Src: 1, Dst: 2, Weight: 2},
		{Src: 2, Dst: 2, Weight: 3},
	}, 2)

	res, err := Build(t.Context(), Config{
		Flags:       Flags{EdgesNumber: -1},
		Columns:     Columns{Weights: true},
		NodesNumber: nodes(3),
		Workers:     2,
	}, shards)
	require.NoError(t, err)

	assert.Equal(t, [][2]uint32{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}, pairs(t, res))
	assert.Equal(t, []float64{1, 1, 2, 2, 3}, res.Weights)
	assert.Equal(t, uint64(1), res.Selfloops)
}

func TestBuild_SortedMatchesUnsorted(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	const n = 300

	seen := map[[2]model.NodeID]bool{}
	var tuples []Tuple
	for len(tuples) < 5000 {
		s, d := model.NodeID(r.IntN(n)), model.NodeID(r.IntN(n))
		if seen[[2]model.NodeID{s, d}] {
			continue
		}
		seen[[2]model.NodeID{s, d}] = true
		tuples = append(tuples, Tuple{Src: s, Dst: d, EdgeType: model.EdgeTypeID(r.IntN(3))})
	}

	cols := Columns{EdgeTypes: true}
	unsorted, err := Build(t.Context(), Config{
		Flags:       Flags{Directed: true, EdgesNumber: -1},
		Columns:     cols,
		NodesNumber: nodes(n),
	}, model.SplitShards(tuples, 4))
	require.NoError(t, err)

	// Feed the sorted result back as sorted input.
	sortedTuples := make([]Tuple, 0, len(tuples))
	for i, p := range pairs(t, unsorted) {
		sortedTuples = append(sortedTuples, Tuple{Src: model.NodeID(p[0]), Dst: model.NodeID(p[1]), EdgeType: unsorted.EdgeTypes[i]})
	}

	sorted, err := Build(t.Context(), Config{
		Flags: Flags{
			Directed: true, Complete: true, Correct: true, Sorted: true,
			EdgesNumber: int64(len(sortedTuples)),
		},
		Columns:     cols,
		NodesNumber: nodes(n),
		Workers:     3,
	}, model.SplitShards(sortedTuples, 7))
	require.NoError(t, err)

	assert.Equal(t, unsorted.Edges.Values(), sorted.Edges.Values())
	assert.Equal(t, unsorted.EdgeTypes, sorted.EdgeTypes)
}

func TestBuild_Duplicates(t *testing.T) {
	tuples := []Tuple{{Src: 0, Dst: 1}, {Src: 0, Dst: 1}, {Src: 1, Dst: 0}}

	t.Run("collapsed", func(t *testing.T) {
		res, err := Build(t.Context(), Config{
			Flags:       Flags{Directed: true, EdgesNumber: -1},
			NodesNumber: nodes(2),
		}, []model.Shard[Tuple]{model.SliceShard(tuples)})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), res.Edges.Len())
	})

	t.Run("kept", func(t *testing.T) {
		res, err := Build(t.Context(), Config{
			Flags:       Flags{Directed: true, Duplicates: true, EdgesNumber: -1},
			NodesNumber: nodes(2),
		}, []model.Shard[Tuple]{model.SliceShard(tuples)})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), res.Edges.Len())
	})

	t.Run("rejected when correct", func(t *testing.T) {
		_, err := Build(t.Context(), Config{
			Flags:       Flags{Directed: true, Complete: true, Correct: true, EdgesNumber: -1},
			NodesNumber: nodes(2),
		}, []model.Shard[Tuple]{model.SliceShard(tuples)})
		assert.ErrorIs(t, err, ErrDuplicateEdge)
		assert.ErrorIs(t, err, errs.ErrInconsistent)
	})
}

func TestBuild_ConsistencyErrors(t *testing.T) {
	tests := []struct {
		name   string
		flags  Flags
		cols   Columns
		tuples []Tuple
		want   error
	}{
		{
			name:   "incomplete undirected",
			flags:  Flags{Complete: true, EdgesNumber: -1},
			tuples: []Tuple{{Src: 0, Dst: 1}},
			want:   ErrIncompleteUndirected,
		},
		{
			name:   "asymmetric weight",
			flags:  Flags{EdgesNumber: -1},
			cols:   Columns{Weights: true},
			tuples: []Tuple{{Src: 0, Dst: 1, Weight: 1}, {Src: 1, Dst: 0, Weight: 2}},
			want:   ErrAsymmetricWeight,
		},
		{
			name:   "zero weight",
			flags:  Flags{Directed: true, EdgesNumber: -1},
			cols:   Columns{Weights: true},
			tuples: []Tuple{{Src: 0, Dst: 1, Weight: 0}},
			want:   ErrInvalidWeight,
		},
		{
			name:   "nan weight",
			flags:  Flags{Directed: true, EdgesNumber: -1},
			cols:   Columns{Weights: true},
			tuples: []Tuple{{Src: 0, Dst: 1, Weight: math.NaN()}},
			want:   ErrInvalidWeight,
		},
		{
			name:   "infinite weight",
			flags:  Flags{Directed: true, EdgesNumber: -1},
			cols:   Columns{Weights: true},
			tuples: []Tuple{{Src: 0, Dst: 1, Weight: math.Inf(1)}},
			want:   ErrInvalidWeight,
		},
		{
			name:   "count mismatch",
			flags:  Flags{Directed: true, EdgesNumber: 5},
			tuples: []Tuple{{Src: 0, Dst: 1}},
			want:   ErrEdgeCountMismatch,
		},
		{
			name:   "node out of range",
			flags:  Flags{Directed: true, EdgesNumber: -1},
			tuples: []Tuple{{Src: 0, Dst: 7}},
			want:   ErrNodeOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(t.Context(), Config{
				Flags:       tt.flags,
				Columns:     tt.cols,
				NodesNumber: nodes(2),
			}, []model.Shard[Tuple]{model.SliceShard(tt.tuples)})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_SortedErrors(t *testing.T) {
	sortedFlags := Flags{Directed: true, Complete: true, Correct: true, Sorted: true, EdgesNumber: 2}

	t.Run("requirements", func(t *testing.T) {
		_, err := Build(t.Context(), Config{
			Flags:       Flags{Sorted: true, EdgesNumber: -1, Complete: true, Correct: true},
			NodesNumber: nodes(2),
		}, nil)
		assert.ErrorIs(t, err, ErrSortedRequirements)
		assert.ErrorIs(t, err, errs.ErrConfiguration)

		_, err = Build(t.Context(), Config{
			Flags:       Flags{Sorted: true, EdgesNumber: 0},
			NodesNumber: nodes(2),
		}, nil)
		assert.ErrorIs(t, err, ErrSortedRequirements)
	})

	t.Run("unknown shard length", func(t *testing.T) {
		shard := model.SliceShard([]Tuple{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}})
		shard.Len = -1
		_, err := Build(t.Context(), Config{Flags: sortedFlags, NodesNumber: nodes(2)}, []model.Shard[Tuple]{shard})
		assert.ErrorIs(t, err, ErrShardLengthUnknown)
	})

	t.Run("not sorted", func(t *testing.T) {
		shard := model.SliceShard([]Tuple{{Src: 1, Dst: 0}, {Src: 0, Dst: 1}})
		_, err := Build(t.Context(), Config{Flags: sortedFlags, NodesNumber: nodes(2)}, []model.Shard[Tuple]{shard})
		assert.ErrorIs(t, err, ErrNotSorted)
	})

	t.Run("duplicate", func(t *testing.T) {
		shard := model.SliceShard([]Tuple{{Src: 0, Dst: 1}, {Src: 0, Dst: 1}})
		_, err := Build(t.Context(), Config{Flags: sortedFlags, NodesNumber: nodes(2)}, []model.Shard[Tuple]{shard})
		assert.ErrorIs(t, err, ErrDuplicateEdge)
	})

	t.Run("undirected missing reverse", func(t *testing.T) {
		flags := sortedFlags
		flags.Directed = false
		shard := model.SliceShard([]Tuple{{Src: 0, Dst: 1}, {Src: 1, Dst: 1}})
		_, err := Build(t.Context(), Config{Flags: flags, NodesNumber: nodes(2)}, []model.Shard[Tuple]{shard})
		assert.ErrorIs(t, err, ErrIncompleteUndirected)
	})
}

func TestBuild_LineErrorWins(t *testing.T) {
	boom := errors.New("bad column")
	shard := model.Shard[Tuple]{
		Len: -1,
		Rows: func(yield func(model.Row[Tuple]) bool) {
			if !yield(model.Row[Tuple]{Line: 0, Value: Tuple{Src: 0, Dst: 1}}) {
				return
			}
			yield(model.Row[Tuple]{Line: 1, Err: boom})
		},
	}

	_, err := Build(t.Context(), Config{
		Flags:       Flags{Directed: true, EdgesNumber: -1},
		NodesNumber: nodes(2),
	}, []model.Shard[Tuple]{shard})
	require.ErrorIs(t, err, boom)

	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, uint64(1), le.Line)
}

func TestBuild_MemoryLimit(t *testing.T) {
	tuples := make([]Tuple, 100)
	for i := range tuples {
		tuples[i] = Tuple{Src: 0, Dst: model.NodeID(i)}
	}

	_, err := Build(t.Context(), Config{
		Flags:       Flags{Directed: true, EdgesNumber: -1},
		NodesNumber: nodes(100),
		Resources:   resource.NewController(resource.Config{MemoryLimitBytes: 64}),
	}, []model.Shard[Tuple]{model.SliceShard(tuples)})
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}

func TestResolver_Strings(t *testing.T) {
	nodeVocab := vocab.New[model.NodeID](0)
	typeVocab := vocab.New[model.EdgeTypeID](0)

	r := &Resolver{
		Columns:          Columns{Weights: true, EdgeTypes: true},
		Nodes:            nodeVocab,
		EdgeTypes:        typeVocab,
		DefaultWeight:    0.5,
		HasDefaultWeight: true,
	}

	shard := r.Strings(model.SliceShard([]model.StringEdge{
		{Src: "a", Dst: "b", EdgeType: "knows", Weight: 2, HasWeight: true},
		{Src: "b", Dst: "c"},
	}))

	var got []Tuple
	for row := range shard.Rows {
		require.NoError(t, row.Err)
		got = append(got, row.Value)
	}

	assert.Equal(t, []Tuple{
		{Src: 0, Dst: 1, Weight: 2, EdgeType: 0},
		{Src: 1, Dst: 2, Weight: 0.5, EdgeType: model.UnknownEdgeType},
	}, got)
	assert.Equal(t, []string{"a", "b", "c"}, nodeVocab.Names())
	assert.Equal(t, []string{"knows"}, typeVocab.Names())
}

func TestResolver_Errors(t *testing.T) {
	known, err := vocab.FromNames[model.NodeID]([]string{"a"})
	require.NoError(t, err)

	strict := &Resolver{Columns: Columns{Weights: true}, Nodes: known, StrictNodes: true}
	for row := range strict.Strings(model.SliceShard([]model.StringEdge{{Src: "a", Dst: "zzz", HasWeight: true, Weight: 1}})).Rows {
		assert.ErrorIs(t, row.Err, ErrUnknownNodeName)
	}

	missing := &Resolver{Columns: Columns{Weights: true}, Nodes: vocab.New[model.NodeID](0)}
	for row := range missing.Strings(model.SliceShard([]model.StringEdge{{Src: "a", Dst: "b"}})).Rows {
		assert.ErrorIs(t, row.Err, ErrMissingWeight)
	}

	unexpected := &Resolver{Nodes: vocab.NewNumeric[model.NodeID](0)}
	for row := range unexpected.Numeric(model.SliceShard([]model.Edge{model.NewEdge(0, 1).WithWeight(1)})).Rows {
		assert.ErrorIs(t, row.Err, ErrUnexpectedWeight)
	}

	bounded := &Resolver{Nodes: vocab.NewNumeric[model.NodeID](2), NodesNumber: 2}
	for row := range bounded.Numeric(model.SliceShard([]model.Edge{model.NewEdge(0, 2)})).Rows {
		assert.ErrorIs(t, row.Err, ErrNodeOutOfRange)
	}

	untyped := &Resolver{Nodes: vocab.NewNumeric[model.NodeID](0)}
	for row := range untyped.Numeric(model.SliceShard([]model.Edge{model.NewEdge(0, 1).WithEdgeType(3)})).Rows {
		assert.ErrorIs(t, row.Err, ErrUnexpectedEdgeType)
	}
	untypedNames := &Resolver{Nodes: vocab.New[model.NodeID](0)}
	for row := range untypedNames.Strings(model.SliceShard([]model.StringEdge{{Src: "a", Dst: "b", EdgeType: "knows"}})).Rows {
		assert.ErrorIs(t, row.Err, ErrUnexpectedEdgeType)
	}
}

func TestResolver_NumericGrowsVocabulary(t *testing.T) {
	nodeVocab := vocab.NewNumeric[model.NodeID](0)
	r := &Resolver{Nodes: nodeVocab}

	for row := range r.Numeric(model.SliceShard([]model.Edge{model.NewEdge(0, 9), model.NewEdge(4, 2)})).Rows {
		require.NoError(t, row.Err)
	}
	r.Finish()
	assert.Equal(t, 10, nodeVocab.Len())
}
