package graph

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/graphgo/internal/edgelist"
	"github.com/hupe1980/graphgo/internal/eliasfano"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/internal/vocab"
	"github.com/hupe1980/graphgo/model"
)

// Graph is an immutable graph backed by an Elias-Fano encoded sequence of
// edge codes. Weights and edge types are optional arrays aligned with the
// sequence. All methods are safe for concurrent use.
type Graph struct {
	name        string
	directed    bool
	nodesNumber uint64

	nodes     *vocab.Vocabulary[model.NodeID]
	nodeTypes *nodeTypes

	edges     *eliasfano.Sequence
	nodeBits  uint8
	selfloops uint64
	weights   []float64

	edgeTypeIDs []model.EdgeTypeID
	edgeTypes   *vocab.Vocabulary[model.EdgeTypeID]

	logger  *slog.Logger
	workers int

	degrees atomic.Pointer[[]uint32]

	structureOnce sync.Once
	structure     *structure

	reportMu sync.RWMutex
	report   *Report
}

// nodeTypes holds the sorted type ids of every node. A nil entry means the
// node has no type.
type nodeTypes struct {
	ids   [][]model.NodeTypeID
	vocab *vocab.Vocabulary[model.NodeTypeID]
}

// FromStringEdges builds a graph from shards of name-keyed edges.
//
// Unless WithNodeNames is given, node ids are assigned in order of first
// appearance. Shards are consumed concurrently, so with more than one shard
// that order depends on scheduling.
func FromStringEdges(ctx context.Context, shards []model.Shard[model.StringEdge], opts ...BuildOption) (*Graph, error) {
	o := newBuildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := o.validateShards(len(shards)); err != nil {
		return nil, err
	}

	nodes, strict, err := o.nodeVocabulary(false)
	if err != nil {
		return nil, err
	}
	edgeTypes, err := o.edgeTypeVocabulary(o.numericEdgeTypeIDs)
	if err != nil {
		return nil, err
	}

	r := o.resolver(nodes, edgeTypes)
	r.StrictNodes = strict

	resolved := make([]model.Shard[edgelist.Tuple], len(shards))
	for i, s := range shards {
		resolved[i] = r.Strings(s)
	}

	res, err := edgelist.Build(ctx, o.config(func() uint64 {
		r.Finish()
		return nodes.Size()
	}), resolved)
	if err != nil {
		return nil, err
	}
	return o.newGraph(res, nodes, edgeTypes)
}

// FromNumericEdges builds a graph from shards of numeric edges. Without
// WithNodesNumber or WithNodeNames the node count is the largest id seen plus one.
func FromNumericEdges(ctx context.Context, shards []model.Shard[model.Edge], opts ...BuildOption) (*Graph, error) {
	o := newBuildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := o.validateShards(len(shards)); err != nil {
		return nil, err
	}

	nodes, _, err := o.nodeVocabulary(true)
	if err != nil {
		return nil, err
	}
	edgeTypes, err := o.edgeTypeVocabulary(true)
	if err != nil {
		return nil, err
	}

	r := o.resolver(nodes, edgeTypes)
	r.NodesNumber = nodes.Size()

	resolved := make([]model.Shard[edgelist.Tuple], len(shards))
	for i, s := range shards {
		resolved[i] = r.Numeric(s)
	}

	res, err := edgelist.Build(ctx, o.config(func() uint64 {
		r.Finish()
		return nodes.Size()
	}), resolved)
	if err != nil {
		return nil, err
	}
	return o.newGraph(res, nodes, edgeTypes)
}

// nodeVocabulary returns the node vocabulary and whether it is fixed.
func (o *buildOptions) nodeVocabulary(numeric bool) (*vocab.Vocabulary[model.NodeID], bool, error) {
	if o.nodeNames != nil {
		v, err := vocab.FromNames[model.NodeID](o.nodeNames)
		return v, true, err
	}
	if numeric {
		v := vocab.NewNumeric[model.NodeID](o.nodesNumber)
		if o.hasNodesNumber {
			v.Freeze()
		}
		return v, o.hasNodesNumber, nil
	}
	return vocab.New[model.NodeID](0), false, nil
}

func (o *buildOptions) edgeTypeVocabulary(numeric bool) (*vocab.Vocabulary[model.EdgeTypeID], error) {
	switch {
	case !o.columns.EdgeTypes:
		return nil, nil
	case o.edgeTypeNames != nil:
		return vocab.FromNames[model.EdgeTypeID](o.edgeTypeNames)
	case numeric:
		return vocab.NewNumeric[model.EdgeTypeID](0), nil
	default:
		return vocab.New[model.EdgeTypeID](0), nil
	}
}

func (o *buildOptions) resolver(nodes *vocab.Vocabulary[model.NodeID], edgeTypes *vocab.Vocabulary[model.EdgeTypeID]) *edgelist.Resolver {
	return &edgelist.Resolver{
		Columns:            o.columns,
		Nodes:              nodes,
		EdgeTypes:          edgeTypes,
		DefaultWeight:      o.defaultWeight,
		HasDefaultWeight:   o.hasDefaultWeight,
		DefaultEdgeType:    o.defaultEdgeType,
		HasDefaultEdgeType: o.hasDefaultEdgeType,
		NumericEdgeTypeIDs: o.numericEdgeTypeIDs,
	}
}

func (o *buildOptions) newGraph(res *edgelist.Result, nodes *vocab.Vocabulary[model.NodeID], edgeTypes *vocab.Vocabulary[model.EdgeTypeID]) (*Graph, error) {
	nodes.Freeze()
	if edgeTypes != nil {
		edgeTypes.Freeze()
	}

	g := &Graph{
		name:        o.name,
		directed:    o.flags.Directed,
		nodesNumber: res.NodesNumber,
		nodes:       nodes,
		edges:       res.Edges,
		nodeBits:    res.NodeBits,
		selfloops:   res.Selfloops,
		weights:     res.Weights,
		edgeTypeIDs: res.EdgeTypes,
		edgeTypes:   edgeTypes,
		logger:      o.logger,
		workers:     parallel.Workers(o.workers),
	}

	if o.nodeTypes != nil {
		nt, err := resolveNodeTypes(nodes, res.NodesNumber, o.nodeTypes)
		if err != nil {
			return nil, err
		}
		g.nodeTypes = nt
	}

	g.logger.Debug("graph built",
		"name", g.name,
		"directed", g.directed,
		"nodes", g.nodesNumber,
		"edges", g.edges.Len(),
		"weighted", g.HasWeights(),
		"edge_types", g.HasEdgeTypes(),
		"node_types", g.HasNodeTypes(),
	)
	return g, nil
}

// resolveNodeTypes assigns type ids in node id order so that the type
// vocabulary does not depend on map iteration order.
func resolveNodeTypes(nodes *vocab.Vocabulary[model.NodeID], n uint64, types map[string][]string) (*nodeTypes, error) {
	byNode := make([][]string, n)
	for name, labels := range types {
		id, ok := nodes.ID(name)
		if !ok {
			return nil, &NodeNotFoundError{Name: name, HasName: true}
		}
		byNode[id] = labels
	}

	nt := &nodeTypes{
		ids:   make([][]model.NodeTypeID, n),
		vocab: vocab.New[model.NodeTypeID](0),
	}
	for node, labels := range byNode {
		if len(labels) == 0 {
			continue
		}
		ids := make([]model.NodeTypeID, 0, len(labels))
		for _, label := range labels {
			id, err := nt.vocab.Insert(label)
			if err != nil {
				return nil, fmt.Errorf("node types: %w", err)
			}
			ids = append(ids, id)
		}
		slices.Sort(ids)
		nt.ids[node] = slices.Compact(ids)
	}
	nt.vocab.Freeze()
	return nt, nil
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// IsDirected reports whether the graph is directed.
func (g *Graph) IsDirected() bool { return g.directed }

// HasWeights reports whether edges carry weights.
func (g *Graph) HasWeights() bool { return g.weights != nil }

// HasEdgeTypes reports whether edges carry types.
func (g *Graph) HasEdgeTypes() bool { return g.edgeTypes != nil }

// HasNodeTypes reports whether nodes carry types.
func (g *Graph) HasNodeTypes() bool { return g.nodeTypes != nil }

// Workers returns the number of goroutines used by parallel operations.
func (g *Graph) Workers() int { return g.workers }

// Logger returns the graph's logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// SizeInBytes returns the memory used by the edge sequence and attribute arrays.
func (g *Graph) SizeInBytes() uint64 {
	size := g.edges.SizeInBytes()
	size += uint64(len(g.weights)) * 8
	size += uint64(len(g.edgeTypeIDs)) * 4
	if c := g.degrees.Load(); c != nil {
		size += uint64(len(*c)) * 4
	}
	return size
}

// EnableDegreeCache materializes all node degrees. Later degree queries read
// the cache instead of searching the edge sequence.
func (g *Graph) EnableDegreeCache(ctx context.Context) error {
	if g.degrees.Load() != nil {
		return nil
	}

	degrees := make([]uint32, g.nodesNumber)
	err := parallel.For(ctx, len(degrees), parallel.Options{Workers: g.workers}, func(_, start, end int) error {
		for i := start; i < end; i++ {
			s, e := g.UncheckedEdgeRange(model.NodeID(i))
			degrees[i] = uint32(e - s)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if g.degrees.CompareAndSwap(nil, &degrees) {
		g.resetReport()
	}
	return nil
}

// DisableDegreeCache drops the degree cache.
func (g *Graph) DisableDegreeCache() {
	if g.degrees.Swap(nil) != nil {
		g.resetReport()
	}
}
