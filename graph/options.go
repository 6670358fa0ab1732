package graph

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/graphgo/internal/conv"
	"github.com/hupe1980/graphgo/internal/edgelist"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/progress"
)

type buildOptions struct {
	name    string
	flags   edgelist.Flags
	columns edgelist.Columns

	nodeNames      []string
	nodesNumber    uint64
	hasNodesNumber bool
	nodeTypes      map[string][]string

	defaultWeight    float64
	hasDefaultWeight bool

	edgeTypeNames      []string
	defaultEdgeType    string
	hasDefaultEdgeType bool
	numericEdgeTypeIDs bool

	logger      *slog.Logger
	workers     int
	memoryLimit int64
	progress    progress.Sink
}

// BuildOption configures graph construction.
type BuildOption func(*buildOptions)

func newBuildOptions(opts []BuildOption) *buildOptions {
	o := &buildOptions{
		name:  "Graph",
		flags: edgelist.Flags{EdgesNumber: -1},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o *buildOptions) validate() error {
	if (len(o.edgeTypeNames) > 0 || o.hasDefaultEdgeType || o.numericEdgeTypeIDs) && !o.columns.EdgeTypes {
		return ErrEdgeTypesWithoutColumn
	}
	if o.flags.Sorted && !o.hasNodesNumber && o.nodeNames == nil {
		return ErrNodesNumberRequired
	}
	if err := conv.CheckNodesNumber(o.nodesNumber); err != nil {
		return fmt.Errorf("%w: %w", ErrTooManyNodes, err)
	}
	return nil
}

// validateShards rejects an edge type vocabulary for a build without input.
func (o *buildOptions) validateShards(n int) error {
	if n == 0 && len(o.edgeTypeNames) > 0 {
		return ErrEdgeTypesWithoutEdges
	}
	return nil
}

func (o *buildOptions) config(nodesNumber func() uint64) edgelist.Config {
	return edgelist.Config{
		Flags:       o.flags,
		Columns:     o.columns,
		NodesNumber: nodesNumber,
		Workers:     o.workers,
		Logger:      o.logger,
		Progress:    o.progress,
		Resources: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
			Workers:          o.workers,
		}),
	}
}

// WithName sets the graph name used in reports and logs.
func WithName(name string) BuildOption {
	return func(o *buildOptions) {
		o.name = name
	}
}

// WithDirected builds a directed graph. Graphs are undirected by default.
func WithDirected(directed bool) BuildOption {
	return func(o *buildOptions) {
		o.flags.Directed = directed
	}
}

// WithComplete asserts that undirected input already lists both directions
// of every edge, which skips symmetrization.
func WithComplete(complete bool) BuildOption {
	return func(o *buildOptions) {
		o.flags.Complete = complete
	}
}

// WithCorrect asserts that the input is free of structural errors. Duplicate
// edges in complete, correct input are reported instead of collapsed.
func WithCorrect(correct bool) BuildOption {
	return func(o *buildOptions) {
		o.flags.Correct = correct
	}
}

// WithDuplicates keeps repeated (src, dst) pairs as parallel edges.
func WithDuplicates(duplicates bool) BuildOption {
	return func(o *buildOptions) {
		o.flags.Duplicates = duplicates
	}
}

// WithEdgesNumber declares the number of input rows. The build fails if the
// input holds a different number.
func WithEdgesNumber(n uint64) BuildOption {
	return func(o *buildOptions) {
		o.flags.EdgesNumber = int64(n)
	}
}

// WithSorted declares the input as globally sorted by (src, dst) with
// edgesNumber rows. Sorted input is written straight into the edge sequence.
// It also implies complete and correct input.
func WithSorted(edgesNumber uint64) BuildOption {
	return func(o *buildOptions) {
		o.flags.Sorted = true
		o.flags.Complete = true
		o.flags.Correct = true
		o.flags.EdgesNumber = int64(edgesNumber)
	}
}

// WithNodeNames fixes the node vocabulary: names[i] receives id i and edges
// referencing other names are rejected.
func WithNodeNames(names []string) BuildOption {
	return func(o *buildOptions) {
		o.nodeNames = names
	}
}

// WithNodesNumber fixes the node count of a numeric graph. Ids not smaller
// than n are rejected; ids without edges become singletons.
func WithNodesNumber(n uint64) BuildOption {
	return func(o *buildOptions) {
		o.nodesNumber = n
		o.hasNodesNumber = true
	}
}

// WithNodeTypes attaches node type labels, keyed by node name. Nodes without
// an entry have no type.
func WithNodeTypes(types map[string][]string) BuildOption {
	return func(o *buildOptions) {
		o.nodeTypes = types
	}
}

// WithWeights builds a weighted graph. Every edge must carry a weight unless
// a default is set.
func WithWeights() BuildOption {
	return func(o *buildOptions) {
		o.columns.Weights = true
	}
}

// WithDefaultWeight builds a weighted graph and uses w for edges without weight.
func WithDefaultWeight(w float64) BuildOption {
	return func(o *buildOptions) {
		o.columns.Weights = true
		o.defaultWeight = w
		o.hasDefaultWeight = true
	}
}

// WithEdgeTypes builds a graph carrying edge types.
func WithEdgeTypes() BuildOption {
	return func(o *buildOptions) {
		o.columns.EdgeTypes = true
	}
}

// WithEdgeTypeNames fixes the edge type vocabulary. Requires WithEdgeTypes.
func WithEdgeTypeNames(names []string) BuildOption {
	return func(o *buildOptions) {
		o.edgeTypeNames = names
	}
}

// WithNumericEdgeTypeIDs reads the edge types of name-keyed edges as decimal
// ids. Combined with WithEdgeTypeNames the ids index that vocabulary.
// Requires WithEdgeTypes.
func WithNumericEdgeTypeIDs() BuildOption {
	return func(o *buildOptions) {
		o.numericEdgeTypeIDs = true
	}
}

// WithDefaultEdgeType assigns name to edges without edge type. Requires WithEdgeTypes.
func WithDefaultEdgeType(name string) BuildOption {
	return func(o *buildOptions) {
		o.defaultEdgeType = name
		o.hasDefaultEdgeType = true
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = l
	}
}

// WithWorkers sets the number of goroutines used by construction and by the
// parallel operations of the resulting graph. Zero means GOMAXPROCS.
func WithWorkers(n int) BuildOption {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// WithMemoryLimit bounds the transient memory of construction. Zero means unlimited.
func WithMemoryLimit(bytes int64) BuildOption {
	return func(o *buildOptions) {
		o.memoryLimit = bytes
	}
}

// WithProgress reports construction stages to sink.
func WithProgress(sink progress.Sink) BuildOption {
	return func(o *buildOptions) {
		o.progress = sink
	}
}
