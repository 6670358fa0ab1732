package graph

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphgo/internal/bitset"
	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

// structure holds the degree-derived node sets, computed on first use.
type structure struct {
	traps      *roaring.Bitmap // out-degree 0
	singletons *roaring.Bitmap // neither in- nor out-edges
	maxDegree  uint32
	minDegree  uint32
}

func (g *Graph) structureInfo() *structure {
	g.structureOnce.Do(func() {
		g.structure = g.computeStructure()
	})
	return g.structure
}

func (g *Graph) computeStructure() *structure {
	n := int(g.nodesNumber)

	// Destinations of directed graphs, to tell traps from singletons.
	var hasIn *bitset.BitSet
	if g.directed {
		hasIn = bitset.New(g.nodesNumber)
		parallel.Run(int(g.edges.Len()), parallel.Options{Workers: g.workers}, func(_, start, end int) {
			for _, code := range g.edges.Iter(uint64(start), uint64(end)) {
				hasIn.Set(uint64(edgecode.Dst(code, g.nodeBits)))
			}
		})
	}

	type partial struct {
		traps, singletons *roaring.Bitmap
		maxDegree         uint32
		minDegree         uint32
	}
	parts := make([]partial, g.workers)
	for i := range parts {
		parts[i] = partial{traps: roaring.New(), singletons: roaring.New(), minDegree: math.MaxUint32}
	}

	parallel.Run(n, parallel.Options{Workers: g.workers}, func(worker, start, end int) {
		p := &parts[worker]
		for i := start; i < end; i++ {
			d := g.UncheckedNodeDegree(model.NodeID(i))
			p.maxDegree = max(p.maxDegree, d)
			p.minDegree = min(p.minDegree, d)
			if d > 0 {
				continue
			}
			p.traps.Add(uint32(i))
			if hasIn == nil || !hasIn.Test(uint64(i)) {
				p.singletons.Add(uint32(i))
			}
		}
	})

	s := &structure{minDegree: math.MaxUint32}
	traps := make([]*roaring.Bitmap, len(parts))
	singletons := make([]*roaring.Bitmap, len(parts))
	for i, p := range parts {
		traps[i], singletons[i] = p.traps, p.singletons
		s.maxDegree = max(s.maxDegree, p.maxDegree)
		s.minDegree = min(s.minDegree, p.minDegree)
	}
	if n == 0 {
		s.minDegree = 0
	}
	s.traps = roaring.FastOr(traps...)
	s.singletons = roaring.FastOr(singletons...)
	return s
}

// MaxNodeDegree returns the largest out-degree.
func (g *Graph) MaxNodeDegree() uint32 { return g.structureInfo().maxDegree }

// MinNodeDegree returns the smallest out-degree.
func (g *Graph) MinNodeDegree() uint32 { return g.structureInfo().minDegree }

// MeanNodeDegree returns the mean out-degree.
func (g *Graph) MeanNodeDegree() float64 {
	if g.nodesNumber == 0 {
		return 0
	}
	return float64(g.edges.Len()) / float64(g.nodesNumber)
}

// Density returns the ratio of stored edges, self-loops excluded, to the
// number of possible ordered pairs of distinct nodes.
func (g *Graph) Density() float64 {
	n := float64(g.nodesNumber)
	if n < 2 {
		return 0
	}
	return float64(g.edges.Len()-g.selfloops) / (n * (n - 1))
}

// TrapNodesNumber returns the number of nodes without outgoing edges.
func (g *Graph) TrapNodesNumber() uint64 { return g.structureInfo().traps.GetCardinality() }

// HasTrapNodes reports whether any node lacks outgoing edges.
func (g *Graph) HasTrapNodes() bool { return !g.structureInfo().traps.IsEmpty() }

// IsTrap reports whether node has no outgoing edges.
func (g *Graph) IsTrap(node model.NodeID) bool {
	return g.structureInfo().traps.Contains(uint32(node))
}

// TrapNodes returns a copy of the set of trap nodes.
func (g *Graph) TrapNodes() *roaring.Bitmap { return g.structureInfo().traps.Clone() }

// SingletonNodesNumber returns the number of nodes without any edge.
func (g *Graph) SingletonNodesNumber() uint64 {
	return g.structureInfo().singletons.GetCardinality()
}

// IsSingleton reports whether node has neither incoming nor outgoing edges.
func (g *Graph) IsSingleton(node model.NodeID) bool {
	return g.structureInfo().singletons.Contains(uint32(node))
}

// SingletonNodes returns a copy of the set of singleton nodes.
func (g *Graph) SingletonNodes() *roaring.Bitmap { return g.structureInfo().singletons.Clone() }

// DenseNodeMapping maps every non-singleton node to a contiguous id, in
// ascending node order.
func (g *Graph) DenseNodeMapping() map[model.NodeID]model.NodeID {
	singletons := g.structureInfo().singletons
	out := make(map[model.NodeID]model.NodeID, g.nodesNumber-singletons.GetCardinality())
	var next model.NodeID
	for i := uint64(0); i < g.nodesNumber; i++ {
		if singletons.Contains(uint32(i)) {
			continue
		}
		out[model.NodeID(i)] = next
		next++
	}
	return out
}
