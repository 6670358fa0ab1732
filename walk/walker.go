package walk

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/internal/rng"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/progress"
)

// Salts separate the random streams of different decisions made for the
// same item index.
const (
	saltRandomStart uint64 = iota + 1
	saltEdgePrediction
)

// iterChunk is the number of walks Iter generates per worker and round.
const iterChunk = 256

type walkerOptions struct {
	logger      *slog.Logger
	workers     int
	progress    progress.Sink
	memoryLimit int64
}

// WalkerOption configures a Walker.
type WalkerOption func(*walkerOptions)

// WithLogger sets the logger. Defaults to the graph's logger.
func WithLogger(l *slog.Logger) WalkerOption {
	return func(o *walkerOptions) { o.logger = l }
}

// WithWorkers sets the number of goroutines. Defaults to the graph's setting.
func WithWorkers(n int) WalkerOption {
	return func(o *walkerOptions) { o.workers = n }
}

// WithProgress reports walk generation to sink.
func WithProgress(sink progress.Sink) WalkerOption {
	return func(o *walkerOptions) { o.progress = sink }
}

// WithMemoryLimit bounds the memory of generated walks and batches. Zero
// means unlimited.
func WithMemoryLimit(bytes int64) WalkerOption {
	return func(o *walkerOptions) { o.memoryLimit = bytes }
}

// Walker generates biased second-order random walks over a Graph.
//
// Every walk is identified by an index. All random decisions of walk i at
// step s are drawn from a stream seeded by (RandomState, i, s), so the output
// does not depend on the number of workers or their scheduling.
type Walker struct {
	g         *graph.Graph
	params    Parameters
	logger    *slog.Logger
	workers   int
	progress  progress.Sink
	resources *resource.Controller

	// starts are the nodes with outgoing edges, ascending.
	starts []model.NodeID

	uniform      bool
	useNodeTypes bool
	useEdgeTypes bool
}

// NewWalker returns a Walker over g.
func NewWalker(g *graph.Graph, params Parameters, opts ...WalkerOption) (*Walker, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	o := walkerOptions{logger: g.Logger(), workers: g.Workers()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.progress == nil && params.Verbose {
		o.progress = progress.NewLogSink(o.logger, time.Second)
	}

	w := &Walker{
		g:        g,
		params:   params,
		logger:   o.logger,
		workers:  parallel.Workers(o.workers),
		progress: progress.OrNoop(o.progress),
		resources: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
			Workers:          o.workers,
		}),
		uniform:      !g.HasWeights() && params.IsFirstOrder(),
		useNodeTypes: params.ChangeNodeTypeWeight != 1 && g.HasNodeTypes(),
		useEdgeTypes: params.ChangeEdgeTypeWeight != 1 && g.HasEdgeTypes(),
	}

	all := roaring.New()
	all.AddRange(0, g.NodesNumber())
	all.AndNot(g.TrapNodes())
	w.starts = make([]model.NodeID, 0, all.GetCardinality())
	for it := all.Iterator(); it.HasNext(); {
		w.starts = append(w.starts, model.NodeID(it.Next()))
	}

	if params.DenseNodeMapping != nil {
		if err := validateMapping(g, params.DenseNodeMapping); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// validateMapping requires an injective mapping defined on every node a walk
// can visit.
func validateMapping(g *graph.Graph, m map[model.NodeID]model.NodeID) error {
	targets := roaring.New()
	for _, v := range m {
		if !targets.CheckedAdd(uint32(v)) {
			return fmt.Errorf("%w: id %d assigned twice", ErrInvalidDenseMapping, v)
		}
	}
	for node := range g.NodesNumber() {
		if g.IsSingleton(model.NodeID(node)) {
			continue
		}
		if _, ok := m[model.NodeID(node)]; !ok {
			return fmt.Errorf("%w: node %d is not mapped", ErrInvalidDenseMapping, node)
		}
	}
	return nil
}

// Parameters returns the walk parameters.
func (w *Walker) Parameters() Parameters { return w.params }

// StartsNumber returns the number of nodes complete walks start from.
func (w *Walker) StartsNumber() int { return len(w.starts) }

// Walks generates Iterations walks from every node with outgoing edges.
// Walk iteration*StartsNumber()+k starts from the k-th such node.
func (w *Walker) Walks(ctx context.Context) ([][]model.NodeID, error) {
	return w.generate(ctx, "complete walks", 0, w.completeWalksNumber(), w.completeStart, true)
}

// RandomWalks generates quantity walks from uniformly drawn start nodes.
func (w *Walker) RandomWalks(ctx context.Context, quantity uint64) ([][]model.NodeID, error) {
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	if len(w.starts) == 0 {
		return nil, ErrNoEdges
	}
	return w.generate(ctx, "random walks", 0, quantity, w.randomStart, true)
}

// Iter yields the complete walks of Walks lazily, in index order. Walks are
// produced in parallel rounds; breaking out of the loop stops generation.
// Generation also stops when ctx is cancelled.
func (w *Walker) Iter(ctx context.Context) iter.Seq2[uint64, []model.NodeID] {
	return func(yield func(uint64, []model.NodeID) bool) {
		total := w.completeWalksNumber()
		chunk := uint64(w.workers * iterChunk)
		for from := uint64(0); from < total; from += chunk {
			walks, err := w.generate(ctx, "", from, min(chunk, total-from), w.completeStart, false)
			if err != nil {
				w.logger.Warn("walk iteration stopped", "at", from, "error", err)
				return
			}
			for k, walk := range walks {
				if !yield(from+uint64(k), walk) {
					return
				}
			}
		}
	}
}

// SingleWalk generates the walk with the given index starting at node. A
// node without outgoing edges yields a walk holding only itself. With a dense
// node mapping, node must be mapped.
func (w *Walker) SingleWalk(node model.NodeID, index uint64) ([]model.NodeID, error) {
	if _, err := w.g.NodeDegree(node); err != nil {
		return nil, err
	}
	if m := w.params.DenseNodeMapping; m != nil {
		if _, ok := m[node]; !ok {
			return nil, fmt.Errorf("%w: node %d is not mapped", ErrInvalidDenseMapping, node)
		}
	}
	var s scratch
	walk := w.walk(&s, node, index, make([]model.NodeID, 0, w.params.WalkLength))
	w.applyMapping(walk)
	return walk, nil
}

func (w *Walker) completeWalksNumber() uint64 {
	return uint64(len(w.starts)) * w.params.Iterations
}

func (w *Walker) completeStart(index uint64) model.NodeID {
	return w.starts[index%uint64(len(w.starts))]
}

func (w *Walker) randomStart(index uint64) model.NodeID {
	seed := rng.Mix(w.params.RandomState, saltRandomStart, index)
	return w.starts[rng.IntN(seed, len(w.starts))]
}

// generate produces the walks with indices [from, from+n).
func (w *Walker) generate(ctx context.Context, stage string, from, n uint64, start func(uint64) model.NodeID, report bool) ([][]model.NodeID, error) {
	if n == 0 {
		return [][]model.NodeID{}, nil
	}

	release, err := w.resources.Reserve(stage, int64(n * w.params.WalkLength * 4))
	if err != nil {
		return nil, err
	}
	defer release()

	sink := w.progress
	if !report {
		sink = progress.Noop{}
	}

	began := time.Now()
	out := make([][]model.NodeID, n)
	scratches := make([]scratch, w.workers)

	sink.Start(stage, n)
	err = parallel.For(ctx, int(n), parallel.Options{Workers: w.workers}, func(worker, lo, hi int) error {
		s := &scratches[worker]
		for k := lo; k < hi; k++ {
			index := from + uint64(k)
			walk := w.walk(s, start(index), index, make([]model.NodeID, 0, w.params.WalkLength))
			w.applyMapping(walk)
			out[k] = walk
		}
		sink.Add(uint64(hi - lo))
		return nil
	})
	sink.Finish()
	if err != nil {
		return nil, err
	}

	if report {
		w.logger.Debug("walks generated",
			"stage", stage,
			"walks", n,
			"walk_length", w.params.WalkLength,
			"elapsed", time.Since(began),
		)
	}
	return out, nil
}

func (w *Walker) applyMapping(walk []model.NodeID) {
	if w.params.DenseNodeMapping == nil {
		return
	}
	for i, n := range walk {
		walk[i] = w.params.DenseNodeMapping[n]
	}
}

// scratch holds the per-worker candidate buffers of a step.
type scratch struct {
	edges   []model.EdgeID
	dsts    []model.NodeID
	weights []float64
}

// walk appends the walk of the given index starting at seed to out.
func (w *Walker) walk(s *scratch, seed model.NodeID, index uint64, out []model.NodeID) []model.NodeID {
	out = append(out, seed)

	var (
		cur      = seed
		prev     model.NodeID
		prevEdge model.EdgeID
	)
	for step := uint64(1); step < w.params.WalkLength; step++ {
		stream := rng.NewStream(rng.Mix(w.params.RandomState, index, step))
		next, edge, ok := w.next(s, &stream, cur, prev, prevEdge, step == 1)
		if !ok {
			break
		}
		out = append(out, next)
		prev, prevEdge, cur = cur, edge, next
	}
	return out
}

// next samples the successor of cur. ok is false when cur is a trap.
func (w *Walker) next(s *scratch, stream *rng.Stream, cur, prev model.NodeID, prevEdge model.EdgeID, first bool) (model.NodeID, model.EdgeID, bool) {
	start, end := w.g.UncheckedEdgeRange(cur)
	degree := int(end - start)
	if degree == 0 {
		return 0, 0, false
	}

	if w.uniform {
		e := start + model.EdgeID(stream.IntN(degree))
		_, dst := w.g.UncheckedNodeIDsFromEdgeID(e)
		return dst, e, true
	}

	w.candidates(s, stream, cur, start, end)

	p := &w.params
	s.weights = slices.Grow(s.weights[:0], len(s.edges))[:len(s.edges)]
	for i, e := range s.edges {
		n := s.dsts[i]
		weight := w.g.UncheckedEdgeWeight(e)
		switch {
		case first:
			if w.useNodeTypes && !w.sameNodeTypes(cur, n) {
				weight /= p.ChangeNodeTypeWeight
			}
		case n == prev:
			weight /= p.ReturnWeight
		default:
			weight /= p.ExploreWeight
			if w.useNodeTypes && !w.sameNodeTypes(cur, n) {
				weight /= p.ChangeNodeTypeWeight
			}
			if w.useEdgeTypes && w.g.UncheckedEdgeTypeID(e) != w.g.UncheckedEdgeTypeID(prevEdge) {
				weight /= p.ChangeEdgeTypeWeight
			}
		}
		s.weights[i] = weight
	}

	i := rng.Weighted(s.weights, stream.Float64())
	return s.dsts[i], s.edges[i], true
}

// candidates fills s with the edges leaving cur, reduced to MaxNeighbours
// by reservoir sampling.
func (w *Walker) candidates(s *scratch, stream *rng.Stream, cur model.NodeID, start, end model.EdgeID) {
	s.edges = s.edges[:0]
	s.dsts = s.dsts[:0]

	limit := int(w.params.MaxNeighbours)
	degree := int(end - start)
	if limit == 0 || degree <= limit {
		for e, dst := range w.g.NeighborsIter(cur) {
			s.edges = append(s.edges, e)
			s.dsts = append(s.dsts, dst)
		}
		return
	}

	for i := 0; i < limit; i++ {
		s.edges = append(s.edges, start+model.EdgeID(i))
	}
	for i := limit; i < degree; i++ {
		if j := stream.IntN(i + 1); j < limit {
			s.edges[j] = start + model.EdgeID(i)
		}
	}
	slices.Sort(s.edges)
	for _, e := range s.edges {
		_, dst := w.g.UncheckedNodeIDsFromEdgeID(e)
		s.dsts = append(s.dsts, dst)
	}
}

func (w *Walker) sameNodeTypes(a, b model.NodeID) bool {
	return slices.Equal(w.g.UncheckedNodeTypeIDs(a), w.g.UncheckedNodeTypeIDs(b))
}
