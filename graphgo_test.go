package graphgo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/testutil"
	"github.com/hupe1980/graphgo/walk"
)

func barbell(t *testing.T, eng *Engine) *graph.Graph {
	t.Helper()
	g, err := eng.FromNumericEdges(t.Context(), model.SplitShards(testutil.Barbell(5), 3), graph.WithName("barbell"))
	require.NoError(t, err)
	return g
}

func TestEngine_Build(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	var buf bytes.Buffer
	eng := New(
		WithMetricsCollector(metrics),
		WithLogger(NewTextLogger(&buf, slog.LevelDebug)),
		WithWorkers(2),
	)

	g := barbell(t, eng)
	assert.Equal(t, "barbell", g.Name())
	assert.Equal(t, uint64(10), g.NodesNumber())
	assert.Equal(t, 2, g.Workers())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(0), stats.BuildErrors)
	assert.Equal(t, int64(g.DirectedEdgesNumber()), stats.BuildEdges)
	assert.Contains(t, buf.String(), "barbell")
}

func TestEngine_StringEdges(t *testing.T) {
	eng := New()
	edges := []model.StringEdge{{Src: "a", Dst: "b"}, {Src: "b", Dst: "c"}}

	g, err := eng.FromStringEdges(t.Context(), []model.Shard[model.StringEdge]{model.SliceShard(edges)})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), g.NodesNumber())
}

func TestEngine_Walks(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(metrics), WithWorkers(3))
	g := barbell(t, eng)

	params, err := walk.NewParameters(8, walk.WithIterations(2))
	require.NoError(t, err)

	walks, err := eng.Walks(t.Context(), g, params)
	require.NoError(t, err)
	require.Len(t, walks, 20)
	for _, w := range walks {
		assert.Len(t, w, 8)
	}

	// Same result with a different worker count.
	again, err := New(WithWorkers(1)).Walks(t.Context(), g, params)
	require.NoError(t, err)
	assert.Equal(t, walks, again)

	random, err := eng.RandomWalks(t.Context(), g, params, 7)
	require.NoError(t, err)
	assert.Len(t, random, 7)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.WalkCount)
	assert.Equal(t, int64(27), stats.WalksGenerated)
}

func TestEngine_Batches(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(metrics))
	g := barbell(t, eng)

	params, err := walk.NewParameters(10, walk.WithWindowSize(2))
	require.NoError(t, err)

	co, err := eng.Cooccurrence(t.Context(), g, params)
	require.NoError(t, err)
	assert.Positive(t, co.Len())

	n2v, err := eng.Node2VecBatch(t.Context(), g, params, 4, 0)
	require.NoError(t, err)
	assert.Positive(t, n2v.Len())

	ep, err := eng.EdgePredictionBatch(t.Context(), g, params, walk.EdgePredictionConfig{
		BatchSize:    16,
		NegativeRate: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 16, ep.Len())

	_, err = eng.Node2VecBatch(t.Context(), g, params, 0, 0)
	require.ErrorIs(t, err, walk.ErrInvalidBatchSize)
	assert.Equal(t, ErrConfiguration, ErrorClass(err))

	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.BatchCount)
	assert.Equal(t, int64(1), stats.BatchErrors)
	assert.Equal(t, int64(co.Len()+n2v.Len()+ep.Len()), stats.BatchRows)
}

func TestEngine_Transforms(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(metrics))
	g := barbell(t, eng)

	sub, err := eng.Subgraph(t.Context(), g, []model.NodeID{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sub.NodesNumber())
	assert.Equal(t, uint64(6), sub.DirectedEdgesNumber())

	h, err := eng.RandomHoldout(t.Context(), g, 0.8, graph.HoldoutOptions{Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, g.DirectedEdgesNumber(), h.Train.DirectedEdgesNumber()+h.Validation.DirectedEdgesNumber())

	hier, err := eng.Louvain(t.Context(), g)
	require.NoError(t, err)
	assert.Equal(t, 2, hier.CommunitiesNumber())

	assert.Equal(t, int64(3), metrics.GetStats().TransformCount)
}

func TestEngine_JobLimit(t *testing.T) {
	eng := New(WithMaxConcurrentJobs(1))
	g := barbell(t, eng)

	release, err := eng.jobs.Job(t.Context())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	params, err := walk.NewParameters(4)
	require.NoError(t, err)

	_, err = eng.Walks(ctx, g, params)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ErrorClass(err))
}

func TestErrorClass(t *testing.T) {
	assert.Nil(t, ErrorClass(nil))
	assert.Nil(t, ErrorClass(errors.New("plain")))
	assert.Equal(t, ErrConfiguration, ErrorClass(ErrInvalidConfig))
	assert.Equal(t, ErrMissingCapability, ErrorClass(walk.ErrNoEdges))
	assert.Equal(t, ErrInconsistent, ErrorClass(walk.ErrSamplingExhausted))
}
