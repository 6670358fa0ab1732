package graph

import (
	"fmt"
	"strings"
)

// Report summarizes a graph. It is computed once per Graph and shared by
// all callers; transformations return new graphs with their own report.
// Toggling the degree cache discards it, since SizeInBytes counts the cache.
type Report struct {
	Name     string
	Directed bool

	NodesNumber           uint64
	DirectedEdgesNumber   uint64
	UndirectedEdgesNumber uint64
	SelfloopsNumber       uint64
	TrapNodesNumber       uint64
	SingletonNodesNumber  uint64

	MinNodeDegree  uint32
	MaxNodeDegree  uint32
	MeanNodeDegree float64
	Density        float64

	ComponentsNumber uint32
	MinComponentSize uint32
	MaxComponentSize uint32

	Weighted        bool
	EdgeTypesNumber int
	NodeTypesNumber int
	SizeInBytes     uint64
}

// Report returns the cached report, computing it on first use.
func (g *Graph) Report() *Report {
	g.reportMu.RLock()
	r := g.report
	g.reportMu.RUnlock()
	if r != nil {
		return r
	}

	g.reportMu.Lock()
	defer g.reportMu.Unlock()
	if g.report != nil {
		return g.report
	}

	c := g.ConnectedComponents()
	g.report = &Report{
		Name:                  g.name,
		Directed:              g.directed,
		NodesNumber:           g.nodesNumber,
		DirectedEdgesNumber:   g.DirectedEdgesNumber(),
		UndirectedEdgesNumber: g.UndirectedEdgesNumber(),
		SelfloopsNumber:       g.selfloops,
		TrapNodesNumber:       g.TrapNodesNumber(),
		SingletonNodesNumber:  g.SingletonNodesNumber(),
		MinNodeDegree:         g.MinNodeDegree(),
		MaxNodeDegree:         g.MaxNodeDegree(),
		MeanNodeDegree:        g.MeanNodeDegree(),
		Density:               g.Density(),
		ComponentsNumber:      c.Number,
		MinComponentSize:      c.MinSize,
		MaxComponentSize:      c.MaxSize,
		Weighted:              g.HasWeights(),
		EdgeTypesNumber:       g.EdgeTypesNumber(),
		NodeTypesNumber:       g.NodeTypesNumber(),
		SizeInBytes:           g.SizeInBytes(),
	}
	return g.report
}

func (g *Graph) resetReport() {
	g.reportMu.Lock()
	g.report = nil
	g.reportMu.Unlock()
}

// String renders the report as plain text.
func (r *Report) String() string {
	var b strings.Builder

	kind := "undirected"
	if r.Directed {
		kind = "directed"
	}
	fmt.Fprintf(&b, "%s: %s graph with %d nodes and %d edges", r.Name, kind, r.NodesNumber, r.UndirectedEdgesNumber)
	if r.Weighted {
		b.WriteString(", weighted")
	}
	b.WriteString(".\n")

	fmt.Fprintf(&b, "Degree: min %d, max %d, mean %.2f. Density %.6f.\n",
		r.MinNodeDegree, r.MaxNodeDegree, r.MeanNodeDegree, r.Density)
	fmt.Fprintf(&b, "Components: %d (sizes %d to %d).\n",
		r.ComponentsNumber, r.MinComponentSize, r.MaxComponentSize)
	fmt.Fprintf(&b, "Self-loops: %d. Traps: %d. Singletons: %d.\n",
		r.SelfloopsNumber, r.TrapNodesNumber, r.SingletonNodesNumber)
	if r.EdgeTypesNumber > 0 {
		fmt.Fprintf(&b, "Edge types: %d.\n", r.EdgeTypesNumber)
	}
	if r.NodeTypesNumber > 0 {
		fmt.Fprintf(&b, "Node types: %d.\n", r.NodeTypesNumber)
	}
	fmt.Fprintf(&b, "Memory: %d bytes.\n", r.SizeInBytes)
	return b.String()
}
