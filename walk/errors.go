package walk

import "github.com/hupe1980/graphgo/internal/errs"

var (
	// ErrInvalidWalkLength is returned for a zero walk length.
	ErrInvalidWalkLength = errs.New(errs.ErrConfiguration, "walk length must be positive")

	// ErrInvalidIterations is returned for a zero iteration count.
	ErrInvalidIterations = errs.New(errs.ErrConfiguration, "iterations must be positive")

	// ErrInvalidWindowSize is returned for a window size below one.
	ErrInvalidWindowSize = errs.New(errs.ErrConfiguration, "window size must be positive")

	// ErrInvalidBias is returned for a bias weight that is not positive and finite.
	ErrInvalidBias = errs.New(errs.ErrConfiguration, "bias weights must be positive and finite")

	// ErrInvalidDenseMapping is returned for a dense node mapping that does not
	// cover every node a walk can visit or maps two nodes to the same id.
	ErrInvalidDenseMapping = errs.New(errs.ErrConfiguration, "invalid dense node mapping")

	// ErrInvalidBatchSize is returned for a batch size below one.
	ErrInvalidBatchSize = errs.New(errs.ErrConfiguration, "batch size must be positive")

	// ErrInvalidNegativeRate is returned for a negative rate outside [0, 1).
	ErrInvalidNegativeRate = errs.New(errs.ErrConfiguration, "negative rate must be in [0, 1)")

	// ErrInvalidQuantity is returned when zero random walks are requested.
	ErrInvalidQuantity = errs.New(errs.ErrConfiguration, "quantity must be positive")

	// ErrSamplingExhausted is returned when no acceptable sample was found
	// within the configured number of attempts.
	ErrSamplingExhausted = errs.New(errs.ErrInconsistent, "sampling attempts exhausted")

	// ErrNoEdges is returned when sampling from a graph without edges.
	ErrNoEdges = errs.New(errs.ErrMissingCapability, "graph has no edges")

	// ErrHomogeneousNodeTypes is returned when heterogeneous sampling is
	// requested on a graph with fewer than two node types.
	ErrHomogeneousNodeTypes = errs.New(errs.ErrMissingCapability, "graph has fewer than two node types")
)
