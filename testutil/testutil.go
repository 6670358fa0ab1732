package testutil

import (
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/graphgo/model"
)

// RNG wraps a seeded PCG generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9E3779B97F4A7C15))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// RandomSparse returns m distinct directed edges between n nodes, without
// self-loops, in random order.
func (r *RNG) RandomSparse(n, m int) []model.Edge {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[[2]model.NodeID]struct{}, m)
	out := make([]model.Edge, 0, m)
	for len(out) < m {
		src := model.NodeID(r.rand.IntN(n))
		dst := model.NodeID(r.rand.IntN(n))
		if src == dst {
			continue
		}
		key := [2]model.NodeID{src, dst}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, model.NewEdge(src, dst))
	}
	return out
}

// RandomWeights returns a copy of edges with weights drawn from (0, 1].
// Both directions of an undirected pair receive the same weight when
// symmetric is set.
func (r *RNG) RandomWeights(edges []model.Edge, symmetric bool) []model.Edge {
	r.mu.Lock()
	defer r.mu.Unlock()

	weights := make(map[[2]model.NodeID]float64, len(edges))
	out := make([]model.Edge, len(edges))
	for i, e := range edges {
		key := [2]model.NodeID{e.Src, e.Dst}
		if symmetric && e.Dst < e.Src {
			key = [2]model.NodeID{e.Dst, e.Src}
		}
		w, ok := weights[key]
		if !ok {
			w = 1 - r.rand.Float64()
			weights[key] = w
		}
		out[i] = e.WithWeight(w)
	}
	return out
}

// Path returns the edges 0-1, 1-2, ..., (n-2)-(n-1), one direction each.
func Path(n int) []model.Edge {
	out := make([]model.Edge, 0, max(n-1, 0))
	for i := 1; i < n; i++ {
		out = append(out, model.NewEdge(model.NodeID(i-1), model.NodeID(i)))
	}
	return out
}

// Star returns the edges 0-i for i in [1, n), one direction each.
func Star(n int) []model.Edge {
	out := make([]model.Edge, 0, max(n-1, 0))
	for i := 1; i < n; i++ {
		out = append(out, model.NewEdge(0, model.NodeID(i)))
	}
	return out
}

// Complete returns one edge per unordered pair of distinct nodes in [0, n).
func Complete(n int) []model.Edge {
	return clique(0, n)
}

// Barbell returns two cliques of k nodes, {0..k-1} and {k..2k-1}, joined by
// the single edge (k-1, k).
func Barbell(k int) []model.Edge {
	out := clique(0, k)
	out = append(out, clique(k, k)...)
	return append(out, model.NewEdge(model.NodeID(k-1), model.NodeID(k)))
}

func clique(offset, n int) []model.Edge {
	out := make([]model.Edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, model.NewEdge(model.NodeID(offset+i), model.NodeID(offset+j)))
		}
	}
	return out
}

// Reversed returns edges with every direction flipped, attributes kept.
func Reversed(edges []model.Edge) []model.Edge {
	out := make([]model.Edge, len(edges))
	for i, e := range edges {
		e.Src, e.Dst = e.Dst, e.Src
		out[i] = e
	}
	return out
}
