package graph

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/rng"
	"github.com/hupe1980/graphgo/model"
)

// HoldoutOptions configures RandomHoldout and ConnectedHoldout.
type HoldoutOptions struct {
	// Seed makes the split reproducible.
	Seed uint64
	// EdgeTypes, if set, restricts the validation edges to these types.
	EdgeTypes []model.EdgeTypeID
}

// RandomHoldout splits the edges into a training and a validation graph.
// The validation graph receives floor((1-trainSize) * edges) edges drawn
// uniformly; both directions of an undirected edge go to the same side.
// Both graphs keep every node.
func (g *Graph) RandomHoldout(ctx context.Context, trainSize float64, opts HoldoutOptions) (train, valid *Graph, err error) {
	candidates, err := g.holdoutCandidates(trainSize, opts)
	if err != nil {
		return nil, nil, err
	}

	k := validationSize(trainSize, len(candidates))
	if k == 0 {
		return nil, nil, fmt.Errorf("%w: no validation edges for train size %v", ErrEmptyHoldout, trainSize)
	}

	stream := rng.NewStream(rng.Mix(opts.Seed))
	shuffle(&stream, candidates, k)

	return g.split(ctx, candidates[:k])
}

// ConnectedHoldout is RandomHoldout that keeps a random spanning forest in
// the training graph, so that it has as many connected components as the
// source. If fewer than the requested edges lie outside the forest, all of
// them are used. Requires an undirected graph.
func (g *Graph) ConnectedHoldout(ctx context.Context, trainSize float64, opts HoldoutOptions) (train, valid *Graph, err error) {
	if g.directed {
		return nil, nil, ErrDirected
	}
	candidates, err := g.holdoutCandidates(trainSize, opts)
	if err != nil {
		return nil, nil, err
	}
	k := validationSize(trainSize, len(candidates))

	stream := rng.NewStream(rng.Mix(opts.Seed))

	// Kruskal over a random permutation of all edges yields a random spanning forest.
	all := make([]model.EdgeID, 0, g.UndirectedEdgesNumber())
	for i, code := range g.edges.Iter(0, g.edges.Len()) {
		if src, dst := g.decode(code); src < dst {
			all = append(all, model.EdgeID(i))
		}
	}
	shuffle(&stream, all, len(all))

	uf := newUnionFind(g.nodesNumber)
	tree := roaring64.New()
	for _, e := range all {
		src, dst := g.UncheckedNodeIDsFromEdgeID(e)
		if uf.union(src, dst) {
			tree.Add(uint64(e))
		}
	}

	shuffle(&stream, candidates, len(candidates))
	selected := make([]model.EdgeID, 0, k)
	for _, e := range candidates {
		if len(selected) == k {
			break
		}
		if !tree.Contains(uint64(e)) {
			selected = append(selected, e)
		}
	}
	if len(selected) == 0 {
		return nil, nil, fmt.Errorf("%w: every candidate edge belongs to the spanning forest", ErrEmptyHoldout)
	}
	if len(selected) < k {
		g.logger.Warn("connected holdout smaller than requested",
			"requested", k,
			"selected", len(selected),
		)
	}

	return g.split(ctx, selected)
}

func validationSize(trainSize float64, candidates int) int {
	return int((1 - trainSize) * float64(candidates))
}

// holdoutCandidates lists the edges eligible for validation, one per
// undirected edge.
func (g *Graph) holdoutCandidates(trainSize float64, opts HoldoutOptions) ([]model.EdgeID, error) {
	if !(trainSize > 0 && trainSize < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrainSize, trainSize)
	}

	var types *roaring.Bitmap
	if opts.EdgeTypes != nil {
		if !g.HasEdgeTypes() {
			return nil, ErrMissingEdgeTypes
		}
		for _, t := range opts.EdgeTypes {
			if uint64(t) >= uint64(g.EdgeTypesNumber()) {
				return nil, fmt.Errorf("%w: %d", ErrEdgeTypeNotFound, t)
			}
		}
		types = roaring.BitmapOf(toUint32s(opts.EdgeTypes)...)
	}

	out := make([]model.EdgeID, 0, g.UndirectedEdgesNumber())
	for i, code := range g.edges.Iter(0, g.edges.Len()) {
		e := model.EdgeID(i)
		if src, dst := g.decode(code); !g.directed && src > dst {
			continue
		}
		if types != nil && !types.Contains(uint32(g.edgeTypeIDs[e])) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// shuffle moves a uniform sample of k elements to the front of s.
func shuffle[T any](stream *rng.Stream, s []T, k int) {
	for i := 0; i < k && i < len(s)-1; i++ {
		j := i + stream.IntN(len(s)-i)
		s[i], s[j] = s[j], s[i]
	}
}

// split builds the graphs without and with the selected edges. For
// undirected graphs the reverse edges follow their selected counterpart.
func (g *Graph) split(ctx context.Context, selected []model.EdgeID) (train, valid *Graph, err error) {
	set := roaring64.New()
	for _, e := range selected {
		set.Add(uint64(e))
		if g.directed {
			continue
		}
		src, dst := g.UncheckedNodeIDsFromEdgeID(e)
		code := edgecode.Encode(uint32(dst), uint32(src), g.nodeBits)
		start, end := g.edges.Range(code, code+1)
		set.AddRange(start, end)
	}

	trainParts, err := g.collect(ctx, func(e model.EdgeID, _, _ model.NodeID) bool {
		return !set.Contains(uint64(e))
	})
	if err != nil {
		return nil, nil, err
	}
	validParts, err := g.collect(ctx, func(e model.EdgeID, _, _ model.NodeID) bool {
		return set.Contains(uint64(e))
	})
	if err != nil {
		return nil, nil, err
	}

	if train, err = g.derive(ctx, g.name+" (train)", trainParts, nil); err != nil {
		return nil, nil, err
	}
	if valid, err = g.derive(ctx, g.name+" (validation)", validParts, nil); err != nil {
		return nil, nil, err
	}
	return train, valid, nil
}
