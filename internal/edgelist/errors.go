package edgelist

import (
	"fmt"

	"github.com/hupe1980/graphgo/internal/errs"
)

var (
	// ErrSortedRequirements is returned when sorted construction is requested
	// without complete, correct input of known size.
	ErrSortedRequirements = errs.New(errs.ErrConfiguration, "sorted construction requires complete and correct input with a known edge and node count")

	// ErrShardLengthUnknown is returned when a sorted shard does not declare its length.
	ErrShardLengthUnknown = errs.New(errs.ErrConfiguration, "sorted construction requires shards of known length")

	// ErrEdgeTypesWithoutColumn is returned when an edge-type vocabulary is
	// supplied for input that carries no edge types.
	ErrEdgeTypesWithoutColumn = errs.New(errs.ErrConfiguration, "edge type vocabulary given without edge types")

	// ErrEdgeTypesWithoutEdges is returned when an edge-type vocabulary is
	// supplied but there are no edges to apply it to.
	ErrEdgeTypesWithoutEdges = errs.New(errs.ErrConfiguration, "edge type vocabulary given without edges")

	// ErrUnknownNodeName is returned for names missing from a strict node vocabulary.
	ErrUnknownNodeName = errs.New(errs.ErrNotFound, "unknown node name")

	// ErrUnknownEdgeType is returned for edge types missing from a fixed vocabulary.
	ErrUnknownEdgeType = errs.New(errs.ErrNotFound, "unknown edge type")

	// ErrNodeOutOfRange is returned for numeric node ids not smaller than the node count.
	ErrNodeOutOfRange = errs.New(errs.ErrNotFound, "node id out of range")

	// ErrEdgeCountMismatch is returned when the rows do not match the declared edge count.
	ErrEdgeCountMismatch = errs.New(errs.ErrInconsistent, "edge count mismatch")

	// ErrNotSorted is returned when sorted input is not in (src, dst) order.
	ErrNotSorted = errs.New(errs.ErrInconsistent, "edges are not sorted")

	// ErrDuplicateEdge is returned for repeated (src, dst) pairs when duplicates are disallowed.
	ErrDuplicateEdge = errs.New(errs.ErrInconsistent, "duplicate edge")

	// ErrIncompleteUndirected is returned when an undirected edge list asserted
	// complete lacks the reverse of some edge.
	ErrIncompleteUndirected = errs.New(errs.ErrInconsistent, "undirected edge without symmetric counterpart")

	// ErrAsymmetricWeight is returned when the two directions of an undirected edge carry different weights.
	ErrAsymmetricWeight = errs.New(errs.ErrInconsistent, "undirected edge with asymmetric weight")

	// ErrInvalidWeight is returned for zero, negative, NaN or infinite weights.
	ErrInvalidWeight = errs.New(errs.ErrInconsistent, "weight must be positive and finite")

	// ErrMissingWeight is returned when a weighted build receives an edge without weight and no default.
	ErrMissingWeight = errs.New(errs.ErrConfiguration, "missing weight and no default weight")

	// ErrUnexpectedWeight is returned when an unweighted build receives a weight.
	ErrUnexpectedWeight = errs.New(errs.ErrConfiguration, "weight given for unweighted graph")

	// ErrUnexpectedEdgeType is returned when a build without edge types receives a typed edge.
	ErrUnexpectedEdgeType = errs.New(errs.ErrConfiguration, "edge type given for graph without edge types")
)

// LineError reports the input line a row-level error originated from.
type LineError struct {
	Line uint64
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
