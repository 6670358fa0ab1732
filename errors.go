package graphgo

import (
	"errors"

	"github.com/hupe1980/graphgo/internal/errs"
	"github.com/hupe1980/graphgo/internal/resource"
)

// Error classes. Every error returned by graphgo and its packages wraps
// exactly one of them.
var (
	// ErrConfiguration marks contradictory flags and invalid parameters.
	ErrConfiguration = errs.ErrConfiguration

	// ErrNotFound marks lookups of ids, names or edges that do not exist.
	ErrNotFound = errs.ErrNotFound

	// ErrInconsistent marks input that violates a structural invariant, such
	// as unsorted input to the sorted pipeline or an asymmetric undirected
	// edge list.
	ErrInconsistent = errs.ErrInconsistent

	// ErrMissingCapability marks operations on graphs lacking the required
	// attributes, such as weights or node types.
	ErrMissingCapability = errs.ErrMissingCapability
)

var (
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errs.New(errs.ErrConfiguration, "invalid configuration")

	// ErrMemoryLimitExceeded is returned when an operation would reserve more
	// memory than WithMemoryLimit allows. No partial result is produced.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

var classes = []error{ErrConfiguration, ErrNotFound, ErrInconsistent, ErrMissingCapability}

// ErrorClass returns the class err belongs to, or nil if err is nil or not a
// graphgo error (for example context.Canceled).
func ErrorClass(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range classes {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}
