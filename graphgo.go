package graphgo

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphgo/community"
	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/walk"
)

// Engine runs graph operations with shared settings: logging, metrics,
// worker and memory budgets, and a bound on concurrent heavy operations.
//
// Graphs returned by an Engine are ordinary *graph.Graph values; the Engine
// holds no reference to them. An Engine is safe for concurrent use.
type Engine struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector
	jobs    *resource.Controller
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	return &Engine{
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
		jobs: resource.NewController(resource.Config{
			MaxConcurrentJobs: o.maxConcurrentJobs,
			Workers:           o.workers,
		}),
	}
}

// NewFromConfig creates an Engine from cfg. Additional options are applied
// after the configuration.
func NewFromConfig(cfg *Config, optFns ...Option) (*Engine, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(append(opts, optFns...)...), nil
}

// Logger returns the engine logger.
func (e *Engine) Logger() *Logger { return e.logger }

// Workers returns the number of goroutines used inside a single operation.
func (e *Engine) Workers() int { return e.jobs.Workers() }

func (e *Engine) acquire(ctx context.Context) (func(), error) {
	return e.jobs.Job(ctx)
}

// graphOptions prepends the engine settings, so that explicit options win.
func (e *Engine) graphOptions(opts []graph.BuildOption) []graph.BuildOption {
	base := []graph.BuildOption{
		graph.WithLogger(e.logger.Logger),
		graph.WithWorkers(e.opts.workers),
		graph.WithMemoryLimit(e.opts.memoryLimit),
	}
	if e.opts.progress != nil {
		base = append(base, graph.WithProgress(e.opts.progress))
	}
	return append(base, opts...)
}

// FromStringEdges builds a graph from name-keyed edges. See
// graph.FromStringEdges.
func (e *Engine) FromStringEdges(ctx context.Context, shards []model.Shard[model.StringEdge], opts ...graph.BuildOption) (*graph.Graph, error) {
	return e.build(ctx, func() (*graph.Graph, error) {
		return graph.FromStringEdges(ctx, shards, e.graphOptions(opts)...)
	})
}

// FromNumericEdges builds a graph from numeric edges. See
// graph.FromNumericEdges.
func (e *Engine) FromNumericEdges(ctx context.Context, shards []model.Shard[model.Edge], opts ...graph.BuildOption) (*graph.Graph, error) {
	return e.build(ctx, func() (*graph.Graph, error) {
		return graph.FromNumericEdges(ctx, shards, e.graphOptions(opts)...)
	})
}

func (e *Engine) build(ctx context.Context, fn func() (*graph.Graph, error)) (*graph.Graph, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	g, err := fn()
	duration := time.Since(start)

	var name string
	var nodes, edges uint64
	if g != nil {
		name, nodes, edges = g.Name(), g.NodesNumber(), g.DirectedEdgesNumber()
	}
	e.metrics.RecordBuild(edges, duration, err)
	e.logger.LogBuild(ctx, name, nodes, edges, duration, err)
	return g, err
}

// NewWalker returns a walker over g using the engine settings.
func (e *Engine) NewWalker(g *graph.Graph, params walk.Parameters) (*walk.Walker, error) {
	opts := []walk.WalkerOption{
		walk.WithLogger(e.logger.Logger),
		walk.WithWorkers(e.opts.workers),
		walk.WithMemoryLimit(e.opts.memoryLimit),
	}
	if e.opts.progress != nil {
		opts = append(opts, walk.WithProgress(e.opts.progress))
	}
	return walk.NewWalker(g, params, opts...)
}

// Walks generates the complete walks of g. See walk.Walker.Walks.
func (e *Engine) Walks(ctx context.Context, g *graph.Graph, params walk.Parameters) ([][]model.NodeID, error) {
	return e.walks(ctx, g, params, func(w *walk.Walker) ([][]model.NodeID, error) {
		return w.Walks(ctx)
	})
}

// RandomWalks generates quantity walks from random start nodes. See
// walk.Walker.RandomWalks.
func (e *Engine) RandomWalks(ctx context.Context, g *graph.Graph, params walk.Parameters, quantity uint64) ([][]model.NodeID, error) {
	return e.walks(ctx, g, params, func(w *walk.Walker) ([][]model.NodeID, error) {
		return w.RandomWalks(ctx, quantity)
	})
}

func (e *Engine) walks(ctx context.Context, g *graph.Graph, params walk.Parameters, fn func(*walk.Walker) ([][]model.NodeID, error)) ([][]model.NodeID, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	w, err := e.NewWalker(g, params)
	var walks [][]model.NodeID
	if err == nil {
		walks, err = fn(w)
	}
	duration := time.Since(start)

	e.metrics.RecordWalks(len(walks), duration, err)
	e.logger.WithGraph(g.Name()).LogWalks(ctx, len(walks), params.WalkLength, duration, err)
	return walks, err
}

// Cooccurrence counts node co-occurrences in the complete walks of g. See
// walk.Walker.Cooccurrence.
func (e *Engine) Cooccurrence(ctx context.Context, g *graph.Graph, params walk.Parameters) (*walk.CooccurrenceBatch, error) {
	return batch(ctx, e, "cooccurrence", g, params, func(w *walk.Walker) (*walk.CooccurrenceBatch, int, error) {
		b, err := w.Cooccurrence(ctx)
		if err != nil {
			return nil, 0, err
		}
		return b, b.Len(), nil
	})
}

// Node2VecBatch returns the CBOW/skipgram batch with the given index. See
// walk.Walker.Node2VecBatch.
func (e *Engine) Node2VecBatch(ctx context.Context, g *graph.Graph, params walk.Parameters, batchSize int, index uint64) (*walk.Node2VecBatch, error) {
	return batch(ctx, e, "node2vec", g, params, func(w *walk.Walker) (*walk.Node2VecBatch, int, error) {
		b, err := w.Node2VecBatch(ctx, batchSize, index)
		if err != nil {
			return nil, 0, err
		}
		return b, b.Len(), nil
	})
}

// EdgePredictionBatch returns a labelled link prediction batch. See
// walk.Walker.EdgePredictionBatch.
func (e *Engine) EdgePredictionBatch(ctx context.Context, g *graph.Graph, params walk.Parameters, cfg walk.EdgePredictionConfig) (*walk.EdgePredictionBatch, error) {
	return batch(ctx, e, "edge_prediction", g, params, func(w *walk.Walker) (*walk.EdgePredictionBatch, int, error) {
		b, err := w.EdgePredictionBatch(ctx, cfg)
		if err != nil {
			return nil, 0, err
		}
		return b, b.Len(), nil
	})
}

func batch[T any](ctx context.Context, e *Engine, kind string, g *graph.Graph, params walk.Parameters, fn func(*walk.Walker) (T, int, error)) (T, error) {
	var zero T
	release, err := e.acquire(ctx)
	if err != nil {
		return zero, err
	}
	defer release()

	start := time.Now()
	w, err := e.NewWalker(g, params)
	var (
		out  T
		rows int
	)
	if err == nil {
		out, rows, err = fn(w)
	}
	duration := time.Since(start)

	e.metrics.RecordBatch(kind, rows, duration, err)
	e.logger.WithGraph(g.Name()).LogBatch(ctx, kind, rows, duration, err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Filter returns the filtered graph. See graph.Graph.Filter.
func (e *Engine) Filter(ctx context.Context, g *graph.Graph, opts graph.FilterOptions) (*graph.Graph, error) {
	return transform(ctx, e, "filter", g, func() (*graph.Graph, error) {
		return g.Filter(ctx, opts)
	})
}

// Subgraph returns the subgraph induced by nodes. See graph.Graph.Subgraph.
func (e *Engine) Subgraph(ctx context.Context, g *graph.Graph, nodes []model.NodeID) (*graph.Graph, error) {
	return transform(ctx, e, "subgraph", g, func() (*graph.Graph, error) {
		set := roaring.New()
		for _, n := range nodes {
			set.Add(uint32(n))
		}
		return g.Subgraph(ctx, set)
	})
}

// Holdout is a training and validation pair of graphs.
type Holdout struct {
	Train      *graph.Graph
	Validation *graph.Graph
}

// RandomHoldout splits the edges of g. See graph.Graph.RandomHoldout.
func (e *Engine) RandomHoldout(ctx context.Context, g *graph.Graph, trainSize float64, opts graph.HoldoutOptions) (*Holdout, error) {
	return transform(ctx, e, "holdout", g, func() (*Holdout, error) {
		train, valid, err := g.RandomHoldout(ctx, trainSize, opts)
		if err != nil {
			return nil, err
		}
		return &Holdout{Train: train, Validation: valid}, nil
	})
}

// ConnectedHoldout splits the edges of g keeping a spanning forest in
// training. See graph.Graph.ConnectedHoldout.
func (e *Engine) ConnectedHoldout(ctx context.Context, g *graph.Graph, trainSize float64, opts graph.HoldoutOptions) (*Holdout, error) {
	return transform(ctx, e, "holdout", g, func() (*Holdout, error) {
		train, valid, err := g.ConnectedHoldout(ctx, trainSize, opts)
		if err != nil {
			return nil, err
		}
		return &Holdout{Train: train, Validation: valid}, nil
	})
}

// Louvain detects the communities of g. See community.Louvain.
func (e *Engine) Louvain(ctx context.Context, g *graph.Graph, opts ...community.Option) (*community.Hierarchy, error) {
	return transform(ctx, e, "louvain", g, func() (*community.Hierarchy, error) {
		base := []community.Option{
			community.WithLogger(e.logger.Logger),
			community.WithWorkers(e.opts.workers),
		}
		return community.Louvain(ctx, g, append(base, opts...)...)
	})
}

func transform[T any](ctx context.Context, e *Engine, op string, g *graph.Graph, fn func() (T, error)) (T, error) {
	var zero T
	release, err := e.acquire(ctx)
	if err != nil {
		return zero, err
	}
	defer release()

	start := time.Now()
	out, err := fn()
	duration := time.Since(start)

	e.metrics.RecordTransform(op, duration, err)
	e.logger.LogTransform(ctx, op, g.Name(), duration, err)
	if err != nil {
		return zero, err
	}
	return out, nil
}
