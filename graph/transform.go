package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphgo/internal/edgelist"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

// FilterOptions selects the part of a graph kept by Filter. The zero value
// keeps everything.
type FilterOptions struct {
	// Name of the resulting graph. Defaults to the source name.
	Name string

	// KeepNodes, if set, removes every node not in the set.
	KeepNodes *roaring.Bitmap
	// RemoveNodes removes the nodes in the set.
	RemoveNodes *roaring.Bitmap

	// EdgeTypes, if set, keeps only edges of these types.
	EdgeTypes []model.EdgeTypeID

	// MinWeight and MaxWeight bound the kept edge weights, inclusive.
	// Zero means unbounded.
	MinWeight float64
	MaxWeight float64

	DropSelfloops bool
	// DropSingletons removes the nodes left without edges by the filter.
	DropSingletons bool
}

func (o *FilterOptions) validate(g *Graph) error {
	if (o.MinWeight != 0 || o.MaxWeight != 0) && !g.HasWeights() {
		return ErrMissingWeights
	}
	if o.MinWeight < 0 || o.MaxWeight < 0 || (o.MaxWeight != 0 && o.MinWeight > o.MaxWeight) {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidWeightRange, o.MinWeight, o.MaxWeight)
	}
	if o.EdgeTypes != nil && !g.HasEdgeTypes() {
		return ErrMissingEdgeTypes
	}
	return nil
}

// Filter returns a new graph holding the selected nodes and edges. Removed
// nodes are dropped and the remaining ids are renumbered densely in their
// original order.
func (g *Graph) Filter(ctx context.Context, opts FilterOptions) (*Graph, error) {
	if err := opts.validate(g); err != nil {
		return nil, err
	}

	keepNode := func(n model.NodeID) bool {
		if opts.KeepNodes != nil && !opts.KeepNodes.Contains(uint32(n)) {
			return false
		}
		return opts.RemoveNodes == nil || !opts.RemoveNodes.Contains(uint32(n))
	}

	var edgeTypes *roaring.Bitmap
	if opts.EdgeTypes != nil {
		edgeTypes = roaring.BitmapOf(toUint32s(opts.EdgeTypes)...)
	}

	maxWeight := opts.MaxWeight
	if maxWeight == 0 {
		maxWeight = math.Inf(1)
	}

	parts, err := g.collect(ctx, func(e model.EdgeID, src, dst model.NodeID) bool {
		if opts.DropSelfloops && src == dst {
			return false
		}
		if !keepNode(src) || !keepNode(dst) {
			return false
		}
		if edgeTypes != nil && !edgeTypes.Contains(uint32(g.edgeTypeIDs[e])) {
			return false
		}
		if g.weights != nil && (g.weights[e] < opts.MinWeight || g.weights[e] > maxWeight) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	var used *roaring.Bitmap
	if opts.DropSingletons {
		used = roaring.New()
		for _, part := range parts {
			for _, t := range part {
				used.Add(uint32(t.Src))
				used.Add(uint32(t.Dst))
			}
		}
	}

	kept := make([]model.NodeID, 0, g.nodesNumber)
	for i := uint64(0); i < g.nodesNumber; i++ {
		n := model.NodeID(i)
		if keepNode(n) && (used == nil || used.Contains(uint32(n))) {
			kept = append(kept, n)
		}
	}
	if uint64(len(kept)) == g.nodesNumber {
		kept = nil
	}

	name := opts.Name
	if name == "" {
		name = g.name
	}
	return g.derive(ctx, name, parts, kept)
}

// Subgraph returns the graph induced by nodes, renumbered densely.
func (g *Graph) Subgraph(ctx context.Context, nodes *roaring.Bitmap) (*Graph, error) {
	return g.Filter(ctx, FilterOptions{KeepNodes: nodes})
}

func toUint32s[T ~uint32](ids []T) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

// collect gathers the edges accepted by keep as sorted tuple chunks.
func (g *Graph) collect(ctx context.Context, keep func(e model.EdgeID, src, dst model.NodeID) bool) ([][]edgelist.Tuple, error) {
	m := int(g.edges.Len())
	grain := max(1, m/(8*g.workers))
	chunks := (m + grain - 1) / grain
	parts := make([][]edgelist.Tuple, chunks)

	err := parallel.Each(ctx, chunks, parallel.Options{Workers: g.workers, Grain: 1}, func(c int) error {
		start, end := c*grain, min((c+1)*grain, m)
		var part []edgelist.Tuple
		for i, code := range g.edges.Iter(uint64(start), uint64(end)) {
			e := model.EdgeID(i)
			src, dst := g.decode(code)
			if !keep(e, src, dst) {
				continue
			}
			part = append(part, edgelist.Tuple{
				Src:      src,
				Dst:      dst,
				Weight:   g.UncheckedEdgeWeight(e),
				EdgeType: g.UncheckedEdgeTypeID(e),
			})
		}
		parts[c] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// derive builds a graph sharing g's attributes from sorted tuple chunks.
// When kept is set, only those nodes survive and tuples are renumbered;
// tuples must not reference other nodes.
func (g *Graph) derive(ctx context.Context, name string, parts [][]edgelist.Tuple, kept []model.NodeID) (*Graph, error) {
	nodes := g.nodes
	nodesNumber := g.nodesNumber
	nt := g.nodeTypes

	if kept != nil {
		remap := make([]model.NodeID, g.nodesNumber)
		for i, n := range kept {
			remap[n] = model.NodeID(i)
		}
		for _, part := range parts {
			for j := range part {
				part[j].Src = remap[part[j].Src]
				part[j].Dst = remap[part[j].Dst]
			}
		}

		var err error
		if nodes, err = g.nodes.Subset(kept); err != nil {
			return nil, err
		}
		nodesNumber = uint64(len(kept))

		if nt != nil {
			ids := make([][]model.NodeTypeID, len(kept))
			for i, n := range kept {
				ids[i] = g.nodeTypes.ids[n]
			}
			nt = &nodeTypes{ids: ids, vocab: g.nodeTypes.vocab}
		}
	}

	shards := make([]model.Shard[edgelist.Tuple], len(parts))
	var total int64
	for i, part := range parts {
		shards[i] = model.SliceShard(part)
		total += int64(len(part))
	}

	res, err := edgelist.Build(ctx, edgelist.Config{
		Flags: edgelist.Flags{
			Directed:    g.directed,
			Complete:    true,
			Correct:     true,
			Duplicates:  true,
			Sorted:      true,
			EdgesNumber: total,
		},
		Columns: edgelist.Columns{
			Weights:   g.weights != nil,
			EdgeTypes: g.edgeTypeIDs != nil,
		},
		NodesNumber: func() uint64 { return nodesNumber },
		Workers:     g.workers,
		Logger:      g.logger,
	}, shards)
	if err != nil {
		return nil, err
	}

	out := &Graph{
		name:        name,
		directed:    g.directed,
		nodesNumber: res.NodesNumber,
		nodes:       nodes,
		nodeTypes:   nt,
		edges:       res.Edges,
		nodeBits:    res.NodeBits,
		selfloops:   res.Selfloops,
		weights:     res.Weights,
		edgeTypeIDs: res.EdgeTypes,
		edgeTypes:   g.edgeTypes,
		logger:      g.logger,
		workers:     g.workers,
	}

	g.logger.Debug("graph derived",
		"from", g.name,
		"name", name,
		"nodes", out.nodesNumber,
		"edges", out.edges.Len(),
	)
	return out, nil
}
