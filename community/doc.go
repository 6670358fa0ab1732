// Package community detects communities with the Louvain method.
//
// Each level runs a local moving phase, where every node joins the
// neighbouring community with the largest modularity gain until the gain per
// sweep stays below a threshold for Patience sweeps, and then aggregates the
// communities into a new weighted graph built by the graph construction
// pipeline. The hierarchy of memberships is returned level by level.
package community
