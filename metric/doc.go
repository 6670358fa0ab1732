// Package metric provides topological similarity kernels over neighbour sets.
//
// All kernels take sorted neighbour slices, as returned by the graph query
// layer, and run a single linear merge. They return 0 when either node has
// no neighbours instead of producing NaN or infinities.
package metric
