package eliasfano

import "errors"

var (
	// ErrInvalidUniverse is returned when a non-empty sequence is requested over an empty universe.
	ErrInvalidUniverse = errors.New("eliasfano: empty universe for non-empty sequence")

	// ErrOutOfRange is returned when an index is not smaller than the sequence length.
	ErrOutOfRange = errors.New("eliasfano: index out of range")

	// ErrValueOutOfUniverse is returned when a value is not smaller than the universe.
	ErrValueOutOfUniverse = errors.New("eliasfano: value outside universe")

	// ErrUnwrittenSlot is returned by Build when a slot was never written.
	ErrUnwrittenSlot = errors.New("eliasfano: unwritten slot")

	// ErrDuplicateSlot is returned when the same slot is written twice.
	ErrDuplicateSlot = errors.New("eliasfano: slot written twice")

	// ErrNotMonotone is returned by Build when values decrease with the index.
	ErrNotMonotone = errors.New("eliasfano: values are not monotone")
)
