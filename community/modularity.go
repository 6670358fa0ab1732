package community

import (
	"context"
	"fmt"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

// Modularity returns the modularity of the partition of g given by
// membership, which maps every node to a community id.
func Modularity(ctx context.Context, g *graph.Graph, membership []uint32) (float64, error) {
	if uint64(len(membership)) != g.NodesNumber() {
		return 0, fmt.Errorf("%w: %d entries for %d nodes", ErrInvalidMembership, len(membership), g.NodesNumber())
	}
	degrees, total, err := weightedDegrees(ctx, g, g.Workers())
	if err != nil {
		return 0, err
	}
	return modularity(ctx, g, g.Workers(), membership, degrees, total)
}

// weightedDegrees returns the sum of the weights leaving every node and
// their total.
func weightedDegrees(ctx context.Context, g *graph.Graph, workers int) ([]float64, float64, error) {
	out := make([]float64, g.NodesNumber())
	err := parallel.Each(ctx, len(out), parallel.Options{Workers: workers}, func(i int) error {
		var sum float64
		for e := range g.NeighborsIter(model.NodeID(i)) {
			sum += g.UncheckedEdgeWeight(e)
		}
		out[i] = sum
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	var total float64
	for _, d := range out {
		total += d
	}
	return out, total, nil
}

// modularity computes sum over communities of in/total - (tot/total)^2,
// where in is the weight inside the community and tot the weighted degree.
func modularity(ctx context.Context, g *graph.Graph, workers int, membership []uint32, degrees []float64, total float64) (float64, error) {
	if total == 0 {
		return 0, nil
	}

	workers = parallel.Workers(workers)
	partials := make([]float64, workers)
	err := parallel.For(ctx, len(membership), parallel.Options{Workers: workers}, func(worker, lo, hi int) error {
		var inside float64
		for i := lo; i < hi; i++ {
			c := membership[i]
			for e, j := range g.NeighborsIter(model.NodeID(i)) {
				if membership[j] == c {
					inside += g.UncheckedEdgeWeight(e)
				}
			}
		}
		partials[worker] += inside
		return nil
	})
	if err != nil {
		return 0, err
	}

	var inside float64
	for _, p := range partials {
		inside += p
	}

	tot := make(map[uint32]float64)
	for i, c := range membership {
		tot[c] += degrees[i]
	}
	q := inside / total
	for _, t := range tot {
		q -= (t / total) * (t / total)
	}
	return q, nil
}
