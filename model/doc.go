// Package model defines core types used throughout graphgo.
//
// # Identity Types
//
//   - NodeID: Dense node identifier (uint32), 0..nodes_number
//   - EdgeID: Position of a directed edge in the sorted edge sequence (uint64)
//   - NodeTypeID: Node type label (uint16)
//   - EdgeTypeID: Edge type (uint32), UnknownEdgeType when absent
//
// # Input Types
//
//   - Edge: Numeric edge tuple with optional type and weight
//   - StringEdge: Name-keyed edge tuple with optional type and weight
//   - Row: One reader item (line index plus value or per-line error)
//   - Shard: One partition of the edge list, consumed by a single worker
//
// Readers (CSV/TSV or otherwise) live outside this module; they only need to
// yield Rows:
//
//	shard := model.SliceShard([]model.Edge{
//	    model.NewEdge(0, 1).WithWeight(1.0),
//	    model.NewEdge(1, 2).WithWeight(2.0),
//	})
package model
