// Package graph provides an immutable, compressed graph built by a
// concurrent edge list pipeline.
//
// Edges are stored as a sorted sequence of codes src<<bits | dst in an
// Elias-Fano structure, so the edges leaving a node form a contiguous range
// found by two binary searches. Weights and edge types are optional arrays
// aligned with that sequence.
//
// # Construction
//
//	g, err := graph.FromStringEdges(ctx, []model.Shard[model.StringEdge]{
//	    model.SliceShard([]model.StringEdge{
//	        {Src: "a", Dst: "b", Weight: 1, HasWeight: true},
//	        {Src: "b", Dst: "c", Weight: 2, HasWeight: true},
//	    }),
//	}, graph.WithWeights())
//
// Undirected graphs are built from either direction of each edge and store
// both. Sorted input of known size (WithSorted) skips the sort and is written
// straight into the sequence.
//
// # Queries
//
// Node and edge queries come in checked and unchecked variants. The
// unchecked ones skip bounds validation and are meant for hot loops that
// already validated their input.
//
// # Transformations
//
// Filter, Subgraph, RandomHoldout and ConnectedHoldout return new graphs;
// a Graph is never modified after construction.
package graph
