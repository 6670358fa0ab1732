package model

import (
	"fmt"
	"iter"
	"math"
)

// NodeID is the dense identifier of a node inside a Graph.
type NodeID uint32

// EdgeID is the position of a directed edge in a Graph's sorted edge sequence.
type EdgeID uint64

// NodeTypeID identifies a node type label.
type NodeTypeID uint16

// EdgeTypeID identifies an edge type.
type EdgeTypeID uint32

// UnknownEdgeType marks an edge whose type was not provided and had no default.
const UnknownEdgeType EdgeTypeID = math.MaxUint32

// MaxNodes is the largest number of nodes a Graph can hold.
const MaxNodes = math.MaxUint32

// Edge is a numeric edge tuple as produced by a reader.
type Edge struct {
	Src NodeID
	Dst NodeID

	// EdgeType is only meaningful when HasEdgeType is set.
	EdgeType    EdgeTypeID
	HasEdgeType bool

	// Weight is only meaningful when HasWeight is set.
	Weight    float64
	HasWeight bool
}

// NewEdge returns an edge without type and weight.
func NewEdge(src, dst NodeID) Edge {
	return Edge{Src: src, Dst: dst}
}

// WithWeight returns a copy of e carrying weight w.
func (e Edge) WithWeight(w float64) Edge {
	e.Weight = w
	e.HasWeight = true
	return e
}

// WithEdgeType returns a copy of e carrying edge type t.
func (e Edge) WithEdgeType(t EdgeTypeID) Edge {
	e.EdgeType = t
	e.HasEdgeType = true
	return e
}

// String returns a string representation of the Edge.
func (e Edge) String() string {
	return fmt.Sprintf("Edge(%d->%d)", e.Src, e.Dst)
}

// StringEdge is an edge tuple keyed by node and edge type names.
// An empty EdgeType means the type is absent.
type StringEdge struct {
	Src      string
	Dst      string
	EdgeType string

	Weight    float64
	HasWeight bool
}

// Row is one item yielded by a reader: either a value or the error that
// occurred while parsing line Line.
type Row[T any] struct {
	Line  uint64
	Value T
	Err   error
}

// Shard is one partition of the input edge list.
//
// Len is the number of rows the shard will yield, or -1 if unknown. Sorted
// construction requires every shard to declare its length.
type Shard[T any] struct {
	Len  int
	Rows iter.Seq[Row[T]]
}

// SliceShard wraps an in-memory slice as a Shard with a known length.
func SliceShard[T any](values []T) Shard[T] {
	return Shard[T]{
		Len: len(values),
		Rows: func(yield func(Row[T]) bool) {
			for i, v := range values {
				if !yield(Row[T]{Line: uint64(i), Value: v}) {
					return
				}
			}
		},
	}
}

// SplitShards partitions values into at most n shards of contiguous rows.
// Line numbers stay global so that errors point at the original position.
func SplitShards[T any](values []T, n int) []Shard[T] {
	if n < 1 {
		n = 1
	}
	if n > len(values) {
		n = max(len(values), 1)
	}

	chunk := (len(values) + n - 1) / n
	shards := make([]Shard[T], 0, n)
	for start := 0; start < len(values) || len(shards) == 0; start += chunk {
		end := min(start+chunk, len(values))
		part := values[start:end]
		offset := uint64(start)
		shards = append(shards, Shard[T]{
			Len: len(part),
			Rows: func(yield func(Row[T]) bool) {
				for i, v := range part {
					if !yield(Row[T]{Line: offset + uint64(i), Value: v}) {
						return
					}
				}
			},
		})
		if chunk == 0 {
			break
		}
	}
	return shards
}
