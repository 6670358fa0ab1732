package graph

import (
	"fmt"
	"iter"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/model"
)

// NodesNumber returns the number of nodes.
func (g *Graph) NodesNumber() uint64 { return g.nodesNumber }

// DirectedEdgesNumber returns the number of stored directed edges. An
// undirected edge counts twice, a self-loop once.
func (g *Graph) DirectedEdgesNumber() uint64 { return g.edges.Len() }

// UndirectedEdgesNumber returns the number of edges counting both directions
// of an undirected edge once. For directed graphs it equals DirectedEdgesNumber.
func (g *Graph) UndirectedEdgesNumber() uint64 {
	if g.directed {
		return g.edges.Len()
	}
	return (g.edges.Len()-g.selfloops)/2 + g.selfloops
}

// SelfloopsNumber returns the number of stored self-loops.
func (g *Graph) SelfloopsNumber() uint64 { return g.selfloops }

func (g *Graph) checkNode(node model.NodeID) error {
	if uint64(node) >= g.nodesNumber {
		return &NodeNotFoundError{ID: node}
	}
	return nil
}

func (g *Graph) checkEdge(e model.EdgeID) error {
	if uint64(e) >= g.edges.Len() {
		return fmt.Errorf("%w: edge id %d >= %d", ErrEdgeNotFound, e, g.edges.Len())
	}
	return nil
}

// EdgeRange returns the half-open range of edge ids leaving node.
func (g *Graph) EdgeRange(node model.NodeID) (start, end model.EdgeID, err error) {
	if err := g.checkNode(node); err != nil {
		return 0, 0, err
	}
	start, end = g.UncheckedEdgeRange(node)
	return start, end, nil
}

// UncheckedEdgeRange is EdgeRange without bounds checking.
func (g *Graph) UncheckedEdgeRange(node model.NodeID) (start, end model.EdgeID) {
	s, e := g.edges.Range(
		edgecode.Encode(uint32(node), 0, g.nodeBits),
		(uint64(node)+1)<<g.nodeBits,
	)
	return model.EdgeID(s), model.EdgeID(e)
}

// NodeDegree returns the out-degree of node.
func (g *Graph) NodeDegree(node model.NodeID) (uint32, error) {
	if err := g.checkNode(node); err != nil {
		return 0, err
	}
	return g.UncheckedNodeDegree(node), nil
}

// UncheckedNodeDegree is NodeDegree without bounds checking.
func (g *Graph) UncheckedNodeDegree(node model.NodeID) uint32 {
	if c := g.degrees.Load(); c != nil {
		return (*c)[node]
	}
	s, e := g.UncheckedEdgeRange(node)
	return uint32(e - s)
}

// Neighbors returns the destinations of the edges leaving node, in ascending order.
func (g *Graph) Neighbors(node model.NodeID) ([]model.NodeID, error) {
	if err := g.checkNode(node); err != nil {
		return nil, err
	}
	return g.UncheckedNeighbors(node), nil
}

// UncheckedNeighbors is Neighbors without bounds checking.
func (g *Graph) UncheckedNeighbors(node model.NodeID) []model.NodeID {
	start, end := g.UncheckedEdgeRange(node)
	out := make([]model.NodeID, 0, end-start)
	for _, code := range g.edges.Iter(uint64(start), uint64(end)) {
		out = append(out, model.NodeID(edgecode.Dst(code, g.nodeBits)))
	}
	return out
}

// NeighborsIter yields (edge id, destination) for the edges leaving node.
// It yields nothing for unknown nodes.
func (g *Graph) NeighborsIter(node model.NodeID) iter.Seq2[model.EdgeID, model.NodeID] {
	return func(yield func(model.EdgeID, model.NodeID) bool) {
		if g.checkNode(node) != nil {
			return
		}
		start, end := g.UncheckedEdgeRange(node)
		for i, code := range g.edges.Iter(uint64(start), uint64(end)) {
			if !yield(model.EdgeID(i), model.NodeID(edgecode.Dst(code, g.nodeBits))) {
				return
			}
		}
	}
}

// EdgeID returns the id of the edge (src, dst). With parallel edges it
// returns the first one.
func (g *Graph) EdgeID(src, dst model.NodeID) (model.EdgeID, error) {
	if err := g.checkNode(src); err != nil {
		return 0, err
	}
	if err := g.checkNode(dst); err != nil {
		return 0, err
	}
	e, ok := g.UncheckedEdgeID(src, dst)
	if !ok {
		return 0, &EdgeNotFoundError{Src: src, Dst: dst}
	}
	return e, nil
}

// UncheckedEdgeID is EdgeID without bounds checking.
func (g *Graph) UncheckedEdgeID(src, dst model.NodeID) (model.EdgeID, bool) {
	i, ok := g.edges.Rank(edgecode.Encode(uint32(src), uint32(dst), g.nodeBits))
	return model.EdgeID(i), ok
}

// HasEdge reports whether the edge (src, dst) exists.
func (g *Graph) HasEdge(src, dst model.NodeID) bool {
	if g.checkNode(src) != nil || g.checkNode(dst) != nil {
		return false
	}
	_, ok := g.UncheckedEdgeID(src, dst)
	return ok
}

// NodeIDsFromEdgeID returns the endpoints of edge e.
func (g *Graph) NodeIDsFromEdgeID(e model.EdgeID) (src, dst model.NodeID, err error) {
	if err := g.checkEdge(e); err != nil {
		return 0, 0, err
	}
	src, dst = g.UncheckedNodeIDsFromEdgeID(e)
	return src, dst, nil
}

// UncheckedNodeIDsFromEdgeID is NodeIDsFromEdgeID without bounds checking.
func (g *Graph) UncheckedNodeIDsFromEdgeID(e model.EdgeID) (src, dst model.NodeID) {
	s, d := edgecode.Decode(g.edges.UncheckedGet(uint64(e)), g.nodeBits)
	return model.NodeID(s), model.NodeID(d)
}

// EdgeWeight returns the weight of edge e.
func (g *Graph) EdgeWeight(e model.EdgeID) (float64, error) {
	if g.weights == nil {
		return 0, ErrMissingWeights
	}
	if err := g.checkEdge(e); err != nil {
		return 0, err
	}
	return g.weights[e], nil
}

// UncheckedEdgeWeight returns the weight of edge e, or 1 for unweighted graphs.
func (g *Graph) UncheckedEdgeWeight(e model.EdgeID) float64 {
	if g.weights == nil {
		return 1
	}
	return g.weights[e]
}

// EdgeTypeID returns the type of edge e. Edges loaded without type and
// without default report model.UnknownEdgeType.
func (g *Graph) EdgeTypeID(e model.EdgeID) (model.EdgeTypeID, error) {
	if g.edgeTypes == nil {
		return 0, ErrMissingEdgeTypes
	}
	if err := g.checkEdge(e); err != nil {
		return 0, err
	}
	return g.edgeTypeIDs[e], nil
}

// UncheckedEdgeTypeID returns the type of edge e, or model.UnknownEdgeType
// for untyped graphs.
func (g *Graph) UncheckedEdgeTypeID(e model.EdgeID) model.EdgeTypeID {
	if g.edgeTypeIDs == nil {
		return model.UnknownEdgeType
	}
	return g.edgeTypeIDs[e]
}

// NodeID returns the id of the node called name.
func (g *Graph) NodeID(name string) (model.NodeID, error) {
	id, ok := g.nodes.ID(name)
	if !ok {
		return 0, &NodeNotFoundError{Name: name, HasName: true}
	}
	return id, nil
}

// NodeName returns the name of node.
func (g *Graph) NodeName(node model.NodeID) (string, error) {
	name, ok := g.nodes.Name(node)
	if !ok {
		return "", &NodeNotFoundError{ID: node}
	}
	return name, nil
}

// NodeNames returns all node names ordered by id.
func (g *Graph) NodeNames() []string { return g.nodes.Names() }

// HasEdgeFromNames reports whether an edge connects the named nodes.
func (g *Graph) HasEdgeFromNames(src, dst string) bool {
	s, ok := g.nodes.ID(src)
	if !ok {
		return false
	}
	d, ok := g.nodes.ID(dst)
	if !ok {
		return false
	}
	return g.HasEdge(s, d)
}

// EdgeIDFromNames returns the id of the edge between the named nodes.
func (g *Graph) EdgeIDFromNames(src, dst string) (model.EdgeID, error) {
	s, err := g.NodeID(src)
	if err != nil {
		return 0, err
	}
	d, err := g.NodeID(dst)
	if err != nil {
		return 0, err
	}
	return g.EdgeID(s, d)
}

// EdgeTypesNumber returns the number of edge types, or 0 for untyped graphs.
func (g *Graph) EdgeTypesNumber() int {
	if g.edgeTypes == nil {
		return 0
	}
	return g.edgeTypes.Len()
}

// EdgeTypeIDByName returns the id of the edge type called name.
func (g *Graph) EdgeTypeIDByName(name string) (model.EdgeTypeID, error) {
	if g.edgeTypes == nil {
		return 0, ErrMissingEdgeTypes
	}
	id, ok := g.edgeTypes.ID(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrEdgeTypeNotFound, name)
	}
	return id, nil
}

// EdgeTypeName returns the name of edge type id.
func (g *Graph) EdgeTypeName(id model.EdgeTypeID) (string, error) {
	if g.edgeTypes == nil {
		return "", ErrMissingEdgeTypes
	}
	name, ok := g.edgeTypes.Name(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrEdgeTypeNotFound, id)
	}
	return name, nil
}

// UniqueEdgeTypeNames returns all edge type names ordered by id.
func (g *Graph) UniqueEdgeTypeNames() []string {
	if g.edgeTypes == nil {
		return nil
	}
	return g.edgeTypes.Names()
}

// NodeTypesNumber returns the number of node types, or 0 for untyped graphs.
func (g *Graph) NodeTypesNumber() int {
	if g.nodeTypes == nil {
		return 0
	}
	return g.nodeTypes.vocab.Len()
}

// NodeTypeIDs returns the sorted type ids of node. A node without type
// yields nil.
func (g *Graph) NodeTypeIDs(node model.NodeID) ([]model.NodeTypeID, error) {
	if g.nodeTypes == nil {
		return nil, ErrMissingNodeTypes
	}
	if err := g.checkNode(node); err != nil {
		return nil, err
	}
	return g.nodeTypes.ids[node], nil
}

// UncheckedNodeTypeIDs is NodeTypeIDs without checks; untyped graphs yield nil.
func (g *Graph) UncheckedNodeTypeIDs(node model.NodeID) []model.NodeTypeID {
	if g.nodeTypes == nil {
		return nil
	}
	return g.nodeTypes.ids[node]
}

// NodeTypeNames returns the type names of node.
func (g *Graph) NodeTypeNames(node model.NodeID) ([]string, error) {
	ids, err := g.NodeTypeIDs(node)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = g.nodeTypes.vocab.UncheckedName(id)
	}
	return names, nil
}

// NodeTypeIDByName returns the id of the node type called name.
func (g *Graph) NodeTypeIDByName(name string) (model.NodeTypeID, error) {
	if g.nodeTypes == nil {
		return 0, ErrMissingNodeTypes
	}
	id, ok := g.nodeTypes.vocab.ID(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNodeTypeNotFound, name)
	}
	return id, nil
}

// UniqueNodeTypeNames returns all node type names ordered by id.
func (g *Graph) UniqueNodeTypeNames() []string {
	if g.nodeTypes == nil {
		return nil
	}
	return g.nodeTypes.vocab.Names()
}

func (g *Graph) decode(code uint64) (src, dst model.NodeID) {
	s, d := edgecode.Decode(code, g.nodeBits)
	return model.NodeID(s), model.NodeID(d)
}
