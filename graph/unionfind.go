package graph

import "github.com/hupe1980/graphgo/model"

// unionFind is a disjoint-set forest over dense node ids with path halving
// and union by size.
type unionFind struct {
	parent []model.NodeID
	size   []uint32
	sets   uint64
}

func newUnionFind(n uint64) *unionFind {
	u := &unionFind{
		parent: make([]model.NodeID, n),
		size:   make([]uint32, n),
		sets:   n,
	}
	for i := range u.parent {
		u.parent[i] = model.NodeID(i)
		u.size[i] = 1
	}
	return u
}

func (u *unionFind) find(x model.NodeID) model.NodeID {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were distinct.
func (u *unionFind) union(a, b model.NodeID) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
	u.sets--
	return true
}

// Components describes the weakly connected components of a graph.
type Components struct {
	// Membership maps every node to its component id. Component ids are
	// dense and ordered by the smallest node of the component.
	Membership []uint32
	Number     uint32
	MinSize    uint32
	MaxSize    uint32
}

// ConnectedComponents computes the weakly connected components. Singletons
// form components of size one.
func (g *Graph) ConnectedComponents() Components {
	u := newUnionFind(g.nodesNumber)
	for _, code := range g.edges.Iter(0, g.edges.Len()) {
		src, dst := g.decode(code)
		u.union(src, dst)
	}

	c := Components{Membership: make([]uint32, g.nodesNumber)}
	ids := make(map[model.NodeID]uint32, u.sets)
	sizes := make([]uint32, 0, u.sets)
	for i := range c.Membership {
		root := u.find(model.NodeID(i))
		id, ok := ids[root]
		if !ok {
			id = uint32(len(sizes))
			ids[root] = id
			sizes = append(sizes, u.size[root])
		}
		c.Membership[i] = id
	}

	c.Number = uint32(len(sizes))
	if len(sizes) > 0 {
		c.MinSize, c.MaxSize = sizes[0], sizes[0]
		for _, s := range sizes[1:] {
			c.MinSize = min(c.MinSize, s)
			c.MaxSize = max(c.MaxSize, s)
		}
	}
	return c
}
