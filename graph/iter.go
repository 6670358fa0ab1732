package graph

import (
	"iter"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/model"
)

// NodeInfo describes one node for reporting collaborators.
type NodeInfo struct {
	ID        model.NodeID
	Name      string
	TypeIDs   []model.NodeTypeID
	TypeNames []string
}

// EdgeInfo describes one directed edge for reporting collaborators.
// EdgeTypeName is empty for untyped graphs and unknown edge types; Weight is
// 1 for unweighted graphs.
type EdgeInfo struct {
	ID           model.EdgeID
	Src          model.NodeID
	SrcName      string
	Dst          model.NodeID
	DstName      string
	EdgeTypeID   model.EdgeTypeID
	EdgeTypeName string
	Weight       float64
}

// IterNodes yields every node in id order.
func (g *Graph) IterNodes() iter.Seq[NodeInfo] {
	return func(yield func(NodeInfo) bool) {
		for i := uint64(0); i < g.nodesNumber; i++ {
			id := model.NodeID(i)
			info := NodeInfo{ID: id, Name: g.nodes.UncheckedName(id)}
			if g.nodeTypes != nil {
				info.TypeIDs = g.nodeTypes.ids[id]
				for _, t := range info.TypeIDs {
					info.TypeNames = append(info.TypeNames, g.nodeTypes.vocab.UncheckedName(t))
				}
			}
			if !yield(info) {
				return
			}
		}
	}
}

// IterEdges yields every directed edge in id order.
func (g *Graph) IterEdges() iter.Seq[EdgeInfo] {
	return func(yield func(EdgeInfo) bool) {
		for i, code := range g.edges.Iter(0, g.edges.Len()) {
			e := model.EdgeID(i)
			src, dst := edgecode.Decode(code, g.nodeBits)
			info := EdgeInfo{
				ID:         e,
				Src:        model.NodeID(src),
				SrcName:    g.nodes.UncheckedName(model.NodeID(src)),
				Dst:        model.NodeID(dst),
				DstName:    g.nodes.UncheckedName(model.NodeID(dst)),
				EdgeTypeID: g.UncheckedEdgeTypeID(e),
				Weight:     g.UncheckedEdgeWeight(e),
			}
			if g.edgeTypes != nil && info.EdgeTypeID != model.UnknownEdgeType {
				info.EdgeTypeName = g.edgeTypes.UncheckedName(info.EdgeTypeID)
			}
			if !yield(info) {
				return
			}
		}
	}
}
