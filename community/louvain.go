package community

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/model"
)

// Hierarchy is the result of Louvain. Levels[0] maps every node of the input
// graph to a community; Levels[i] maps every community of level i-1 to a
// community of level i. Community ids of a level are dense and numbered in
// order of their first member.
type Hierarchy struct {
	Levels [][]uint32
	// Modularities holds the modularity reached by each level.
	Modularities []float64
}

// Final maps every node of the input graph to its community at the last
// level.
func (h *Hierarchy) Final() []uint32 {
	if len(h.Levels) == 0 {
		return nil
	}
	out := slices.Clone(h.Levels[0])
	for _, level := range h.Levels[1:] {
		for i, c := range out {
			out[i] = level[c]
		}
	}
	return out
}

// CommunitiesNumber returns the number of communities at the last level.
func (h *Hierarchy) CommunitiesNumber() int {
	if len(h.Levels) == 0 || len(h.Levels[len(h.Levels)-1]) == 0 {
		return 0
	}
	return int(slices.Max(h.Levels[len(h.Levels)-1])) + 1
}

// Louvain detects communities by greedy modularity optimisation. Every level
// moves nodes between neighbouring communities until the modularity stops
// improving, then aggregates each community into a node of a new weighted
// graph. Unweighted graphs use weight 1. Requires an undirected graph.
func Louvain(ctx context.Context, g *graph.Graph, opts ...Option) (*Hierarchy, error) {
	o := options{
		recursionMinimumImprovement:  DefaultRecursionMinimumImprovement,
		firstPhaseMinimumImprovement: DefaultFirstPhaseMinimumImprovement,
		patience:                     DefaultPatience,
		logger:                       g.Logger(),
		workers:                      g.Workers(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if g.IsDirected() {
		return nil, graph.ErrDirected
	}

	began := time.Now()
	h := &Hierarchy{}
	cur := g
	for level := 0; ; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := localMoving(ctx, cur, &o)
		if err != nil {
			return nil, err
		}
		if level > 0 && !res.moved {
			break
		}
		membership, communities := compact(res.membership)
		h.Levels = append(h.Levels, membership)
		h.Modularities = append(h.Modularities, res.modularity)

		o.logger.Debug("louvain level done",
			"level", level,
			"nodes", cur.NodesNumber(),
			"communities", communities,
			"modularity", res.modularity,
			"sweeps", res.sweeps,
		)

		if !res.moved || res.gain <= o.recursionMinimumImprovement || uint64(communities) == cur.NodesNumber() {
			break
		}
		if cur, err = aggregate(ctx, cur, membership, communities, level, &o); err != nil {
			return nil, err
		}
	}

	o.logger.Info("louvain done",
		"graph", g.Name(),
		"levels", len(h.Levels),
		"communities", h.CommunitiesNumber(),
		"modularity", h.Modularities[len(h.Modularities)-1],
		"elapsed", time.Since(began),
	)
	return h, nil
}

type phaseResult struct {
	membership []uint32
	modularity float64
	gain       float64
	moved      bool
	sweeps     int
}

// localMoving runs the first phase on g starting from singleton communities.
func localMoving(ctx context.Context, g *graph.Graph, o *options) (phaseResult, error) {
	degrees, total, err := weightedDegrees(ctx, g, o.workers)
	if err != nil {
		return phaseResult{}, err
	}

	n := len(degrees)
	res := phaseResult{membership: make([]uint32, n)}
	for i := range res.membership {
		res.membership[i] = uint32(i)
	}
	if total == 0 {
		return res, nil
	}

	comm := res.membership
	tot := slices.Clone(degrees)
	links := make([]float64, n)
	touched := make([]uint32, 0, 64)

	q, err := modularity(ctx, g, o.workers, comm, degrees, total)
	if err != nil {
		return phaseResult{}, err
	}
	start := q
	patience := 0

	for {
		if err := ctx.Err(); err != nil {
			return phaseResult{}, err
		}
		res.sweeps++

		moved := false
		for i := range n {
			node := model.NodeID(i)
			current := comm[i]

			touched = touched[:0]
			for e, j := range g.NeighborsIter(node) {
				if j == node {
					continue
				}
				c := comm[j]
				if links[c] == 0 {
					touched = append(touched, c)
				}
				links[c] += g.UncheckedEdgeWeight(e)
			}

			k := degrees[i]
			tot[current] -= k
			best, bestGain := current, links[current]-tot[current]*k/total
			for _, c := range touched {
				if gain := links[c] - tot[c]*k/total; gain > bestGain {
					best, bestGain = c, gain
				}
			}
			tot[best] += k
			comm[i] = best
			if best != current {
				moved = true
			}

			for _, c := range touched {
				links[c] = 0
			}
		}

		next, err := modularity(ctx, g, o.workers, comm, degrees, total)
		if err != nil {
			return phaseResult{}, err
		}
		if !moved {
			q = next
			break
		}
		res.moved = true

		if next-q < o.firstPhaseMinimumImprovement {
			patience++
		} else {
			patience = 0
		}
		q = next
		if patience >= o.patience {
			break
		}
	}

	res.modularity = q
	res.gain = q - start
	return res, nil
}

// compact renumbers community ids densely in order of first appearance.
func compact(comm []uint32) ([]uint32, uint32) {
	remap := make(map[uint32]uint32)
	out := make([]uint32, len(comm))
	for i, c := range comm {
		id, ok := remap[c]
		if !ok {
			id = uint32(len(remap))
			remap[c] = id
		}
		out[i] = id
	}
	return out, uint32(len(remap))
}

// aggregate builds the graph whose nodes are the communities of g. The
// weight between two communities is the weight of the edges between their
// members; edges inside a community become a self-loop carrying both
// directions, so weighted degrees are preserved.
func aggregate(ctx context.Context, g *graph.Graph, membership []uint32, communities uint32, level int, o *options) (*graph.Graph, error) {
	weights := make(map[uint64]float64)
	for i, a := range membership {
		for e, j := range g.NeighborsIter(model.NodeID(i)) {
			b := membership[j]
			if a > b {
				continue
			}
			weights[uint64(a)<<32|uint64(b)] += g.UncheckedEdgeWeight(e)
		}
	}

	edges := make([]model.Edge, 0, len(weights))
	for _, key := range slices.Sorted(maps.Keys(weights)) {
		edges = append(edges, model.NewEdge(model.NodeID(key>>32), model.NodeID(uint32(key))).WithWeight(weights[key]))
	}

	return graph.FromNumericEdges(ctx, model.SplitShards(edges, o.workers),
		graph.WithName(fmt.Sprintf("%s (louvain level %d)", g.Name(), level+1)),
		graph.WithNodesNumber(uint64(communities)),
		graph.WithWeights(),
		graph.WithLogger(o.logger),
		graph.WithWorkers(o.workers),
	)
}
