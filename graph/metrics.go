package graph

import (
	"github.com/hupe1980/graphgo/metric"
	"github.com/hupe1980/graphgo/model"
)

// EdgeMetricNames lists the columns returned by EdgeMetrics, in order.
var EdgeMetricNames = []string{
	"adamic_adar",
	"jaccard",
	"resource_allocation",
	"preferential_attachment",
}

func (g *Graph) checkPair(a, b model.NodeID) error {
	if err := g.checkNode(a); err != nil {
		return err
	}
	return g.checkNode(b)
}

// JaccardCoefficient returns |N(a) ∩ N(b)| / |N(a) ∪ N(b)|.
func (g *Graph) JaccardCoefficient(a, b model.NodeID) (float64, error) {
	if err := g.checkPair(a, b); err != nil {
		return 0, err
	}
	return g.UncheckedJaccardCoefficient(a, b), nil
}

// UncheckedJaccardCoefficient is JaccardCoefficient without bounds checking.
func (g *Graph) UncheckedJaccardCoefficient(a, b model.NodeID) float64 {
	return metric.Jaccard(g.UncheckedNeighbors(a), g.UncheckedNeighbors(b))
}

// AdamicAdarIndex returns the sum of 1/ln(degree) over the common neighbours of a and b.
func (g *Graph) AdamicAdarIndex(a, b model.NodeID) (float64, error) {
	if err := g.checkPair(a, b); err != nil {
		return 0, err
	}
	return g.UncheckedAdamicAdarIndex(a, b), nil
}

// UncheckedAdamicAdarIndex is AdamicAdarIndex without bounds checking.
func (g *Graph) UncheckedAdamicAdarIndex(a, b model.NodeID) float64 {
	return metric.AdamicAdar(g.UncheckedNeighbors(a), g.UncheckedNeighbors(b), g.UncheckedNodeDegree)
}

// ResourceAllocationIndex returns the sum of 1/degree over the common neighbours of a and b.
func (g *Graph) ResourceAllocationIndex(a, b model.NodeID) (float64, error) {
	if err := g.checkPair(a, b); err != nil {
		return 0, err
	}
	return g.UncheckedResourceAllocationIndex(a, b), nil
}

// UncheckedResourceAllocationIndex is ResourceAllocationIndex without bounds checking.
func (g *Graph) UncheckedResourceAllocationIndex(a, b model.NodeID) float64 {
	return metric.ResourceAllocation(g.UncheckedNeighbors(a), g.UncheckedNeighbors(b), g.UncheckedNodeDegree)
}

// PreferentialAttachment returns degree(a) * degree(b), divided by the
// squared maximum degree when normalize is set.
func (g *Graph) PreferentialAttachment(a, b model.NodeID, normalize bool) (float64, error) {
	if err := g.checkPair(a, b); err != nil {
		return 0, err
	}
	return g.UncheckedPreferentialAttachment(a, b, normalize), nil
}

// UncheckedPreferentialAttachment is PreferentialAttachment without bounds checking.
func (g *Graph) UncheckedPreferentialAttachment(a, b model.NodeID, normalize bool) float64 {
	var maxDegree uint32
	if normalize {
		maxDegree = g.MaxNodeDegree()
	}
	return metric.PreferentialAttachment(g.UncheckedNodeDegree(a), g.UncheckedNodeDegree(b), maxDegree)
}

// EdgeMetrics returns the metrics named by EdgeMetricNames for the pair
// (src, dst). The pair does not need to be connected. Preferential
// attachment is normalized.
func (g *Graph) EdgeMetrics(src, dst model.NodeID) ([]float64, error) {
	if err := g.checkPair(src, dst); err != nil {
		return nil, err
	}

	a, b := g.UncheckedNeighbors(src), g.UncheckedNeighbors(dst)
	return []float64{
		metric.AdamicAdar(a, b, g.UncheckedNodeDegree),
		metric.Jaccard(a, b),
		metric.ResourceAllocation(a, b, g.UncheckedNodeDegree),
		metric.PreferentialAttachment(uint32(len(a)), uint32(len(b)), g.MaxNodeDegree()),
	}, nil
}
