package walk

import (
	"fmt"
	"math"

	"github.com/hupe1980/graphgo/model"
)

// Default parameter values.
const (
	DefaultIterations    = 1
	DefaultWindowSize    = 4
	DefaultMaxNeighbours = 100
	DefaultRandomState   = 42
)

// Parameters configures walk generation. Build them with NewParameters.
type Parameters struct {
	WalkLength uint64
	Iterations uint64
	WindowSize int

	// Biases divide the weight of a candidate neighbour; a value of 1 is neutral.
	ReturnWeight         float64
	ExploreWeight        float64
	ChangeNodeTypeWeight float64
	ChangeEdgeTypeWeight float64

	// MaxNeighbours caps the neighbours considered per step by uniform
	// reservoir sampling. Zero means unlimited.
	MaxNeighbours uint32

	RandomState uint64

	// DenseNodeMapping, if set, renames node ids in generated walks.
	DenseNodeMapping map[model.NodeID]model.NodeID

	// Verbose logs progress when the walker has no progress sink.
	Verbose bool
}

// Option configures Parameters.
type Option func(*Parameters)

// NewParameters returns validated parameters for walks of walkLength nodes.
func NewParameters(walkLength uint64, opts ...Option) (Parameters, error) {
	p := Parameters{
		WalkLength:           walkLength,
		Iterations:           DefaultIterations,
		WindowSize:           DefaultWindowSize,
		ReturnWeight:         1,
		ExploreWeight:        1,
		ChangeNodeTypeWeight: 1,
		ChangeEdgeTypeWeight: 1,
		MaxNeighbours:        DefaultMaxNeighbours,
		RandomState:          DefaultRandomState,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks the parameter invariants.
func (p Parameters) Validate() error {
	if p.WalkLength == 0 {
		return ErrInvalidWalkLength
	}
	if p.Iterations == 0 {
		return ErrInvalidIterations
	}
	if p.WindowSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, p.WindowSize)
	}
	for _, b := range []struct {
		name  string
		value float64
	}{
		{"return_weight", p.ReturnWeight},
		{"explore_weight", p.ExploreWeight},
		{"change_node_type_weight", p.ChangeNodeTypeWeight},
		{"change_edge_type_weight", p.ChangeEdgeTypeWeight},
	} {
		if !(b.value > 0) || math.IsInf(b.value, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidBias, b.name, b.value)
		}
	}
	return nil
}

// IsFirstOrder reports whether the transition probabilities ignore the
// previous node, i.e. all biases are neutral.
func (p Parameters) IsFirstOrder() bool {
	return p.ReturnWeight == 1 && p.ExploreWeight == 1 &&
		p.ChangeNodeTypeWeight == 1 && p.ChangeEdgeTypeWeight == 1
}

// WithIterations sets the number of walks started from every node.
func WithIterations(n uint64) Option {
	return func(p *Parameters) { p.Iterations = n }
}

// WithWindowSize sets the context window used by co-occurrence and node2vec batches.
func WithWindowSize(w int) Option {
	return func(p *Parameters) { p.WindowSize = w }
}

// WithReturnWeight sets the bias towards returning to the previous node.
// Values above 1 make returning less likely.
func WithReturnWeight(w float64) Option {
	return func(p *Parameters) { p.ReturnWeight = w }
}

// WithExploreWeight sets the bias towards moving away from the previous node.
func WithExploreWeight(w float64) Option {
	return func(p *Parameters) { p.ExploreWeight = w }
}

// WithChangeNodeTypeWeight sets the bias towards neighbours of another node type.
func WithChangeNodeTypeWeight(w float64) Option {
	return func(p *Parameters) { p.ChangeNodeTypeWeight = w }
}

// WithChangeEdgeTypeWeight sets the bias towards edges of another type than
// the one just traversed.
func WithChangeEdgeTypeWeight(w float64) Option {
	return func(p *Parameters) { p.ChangeEdgeTypeWeight = w }
}

// WithMaxNeighbours caps the neighbours considered per step.
func WithMaxNeighbours(n uint32) Option {
	return func(p *Parameters) { p.MaxNeighbours = n }
}

// WithoutMaxNeighbours considers every neighbour at every step.
func WithoutMaxNeighbours() Option {
	return func(p *Parameters) { p.MaxNeighbours = 0 }
}

// WithRandomState sets the seed of every random decision.
func WithRandomState(s uint64) Option {
	return func(p *Parameters) { p.RandomState = s }
}

// WithDenseNodeMapping renames node ids in generated walks.
func WithDenseNodeMapping(m map[model.NodeID]model.NodeID) Option {
	return func(p *Parameters) { p.DenseNodeMapping = m }
}

// WithVerbose enables progress logging.
func WithVerbose(v bool) Option {
	return func(p *Parameters) { p.Verbose = v }
}
