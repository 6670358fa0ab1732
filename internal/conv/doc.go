// Package conv checks counts and ids against the fixed-width NodeID and
// EdgeTypeID domains.
//
// Use it at input boundaries only. Inside the graph, ids bounded by a node
// count are cast directly.
package conv
