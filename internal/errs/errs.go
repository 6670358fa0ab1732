// Package errs holds the error classes shared by every layer.
//
// Concrete sentinels in other packages wrap exactly one class, so callers can
// test either the precise cause or the class with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks contradictory flags and invalid parameters.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound marks lookups of ids, names or edges that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrInconsistent marks input that violates a structural invariant.
	ErrInconsistent = errors.New("consistency error")

	// ErrMissingCapability marks operations on graphs lacking the required attributes.
	ErrMissingCapability = errors.New("missing capability")
)

// New returns a sentinel error with message msg that wraps class.
func New(class error, msg string) error {
	return fmt.Errorf("%w: %s", class, msg)
}
