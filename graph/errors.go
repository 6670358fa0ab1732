package graph

import (
	"fmt"

	"github.com/hupe1980/graphgo/internal/edgelist"
	"github.com/hupe1980/graphgo/internal/errs"
	"github.com/hupe1980/graphgo/model"
)

var (
	// ErrNodesNumberRequired is returned when sorted construction is requested
	// without a node count or node names.
	ErrNodesNumberRequired = errs.New(errs.ErrConfiguration, "sorted construction requires a node count")

	// ErrTooManyNodes is returned for node counts beyond the NodeID range.
	ErrTooManyNodes = errs.New(errs.ErrConfiguration, "too many nodes")

	// ErrInvalidTrainSize is returned when a holdout train size is outside (0, 1).
	ErrInvalidTrainSize = errs.New(errs.ErrConfiguration, "train size must be in (0, 1)")

	// ErrEmptyHoldout is returned when a holdout would leave the training or
	// validation graph without edges.
	ErrEmptyHoldout = errs.New(errs.ErrConfiguration, "holdout leaves one side empty")

	// ErrInvalidWeightRange is returned by Filter for an empty weight range.
	ErrInvalidWeightRange = errs.New(errs.ErrConfiguration, "invalid weight range")

	// ErrNodeNotFound is returned for unknown node ids or names.
	ErrNodeNotFound = errs.New(errs.ErrNotFound, "node not found")

	// ErrEdgeNotFound is returned for absent edges and out-of-range edge ids.
	ErrEdgeNotFound = errs.New(errs.ErrNotFound, "edge not found")

	// ErrEdgeTypeNotFound is returned for unknown edge type names or ids.
	ErrEdgeTypeNotFound = errs.New(errs.ErrNotFound, "edge type not found")

	// ErrNodeTypeNotFound is returned for unknown node type names.
	ErrNodeTypeNotFound = errs.New(errs.ErrNotFound, "node type not found")

	// ErrMissingWeights is returned when an operation requires edge weights.
	ErrMissingWeights = errs.New(errs.ErrMissingCapability, "graph has no edge weights")

	// ErrMissingEdgeTypes is returned when an operation requires edge types.
	ErrMissingEdgeTypes = errs.New(errs.ErrMissingCapability, "graph has no edge types")

	// ErrMissingNodeTypes is returned when an operation requires node types.
	ErrMissingNodeTypes = errs.New(errs.ErrMissingCapability, "graph has no node types")

	// ErrDirected is returned when an operation requires an undirected graph.
	ErrDirected = errs.New(errs.ErrMissingCapability, "operation requires an undirected graph")
)

// NodeNotFoundError reports a node lookup that failed. Exactly one of ID and
// Name is meaningful, depending on HasName.
type NodeNotFoundError struct {
	ID      model.NodeID
	Name    string
	HasName bool
}

func (e *NodeNotFoundError) Error() string {
	if e.HasName {
		return fmt.Sprintf("node %q not found", e.Name)
	}
	return fmt.Sprintf("node %d not found", e.ID)
}

func (e *NodeNotFoundError) Unwrap() error { return ErrNodeNotFound }

// EdgeNotFoundError reports that no edge connects Src to Dst.
type EdgeNotFoundError struct {
	Src model.NodeID
	Dst model.NodeID
}

func (e *EdgeNotFoundError) Error() string {
	return fmt.Sprintf("edge (%d, %d) not found", e.Src, e.Dst)
}

func (e *EdgeNotFoundError) Unwrap() error { return ErrEdgeNotFound }

// Construction errors surfaced unchanged from the edge list pipeline.
var (
	ErrSortedRequirements     = edgelist.ErrSortedRequirements
	ErrShardLengthUnknown     = edgelist.ErrShardLengthUnknown
	ErrEdgeTypesWithoutColumn = edgelist.ErrEdgeTypesWithoutColumn
	ErrEdgeTypesWithoutEdges  = edgelist.ErrEdgeTypesWithoutEdges
	ErrUnknownNodeName        = edgelist.ErrUnknownNodeName
	ErrUnknownEdgeType        = edgelist.ErrUnknownEdgeType
	ErrNodeOutOfRange         = edgelist.ErrNodeOutOfRange
	ErrEdgeCountMismatch      = edgelist.ErrEdgeCountMismatch
	ErrNotSorted              = edgelist.ErrNotSorted
	ErrDuplicateEdge          = edgelist.ErrDuplicateEdge
	ErrIncompleteUndirected   = edgelist.ErrIncompleteUndirected
	ErrAsymmetricWeight       = edgelist.ErrAsymmetricWeight
	ErrInvalidWeight          = edgelist.ErrInvalidWeight
	ErrMissingWeight          = edgelist.ErrMissingWeight
	ErrUnexpectedWeight       = edgelist.ErrUnexpectedWeight
	ErrUnexpectedEdgeType     = edgelist.ErrUnexpectedEdgeType
)

// LineError reports the input line a row-level construction error came from.
type LineError = edgelist.LineError
