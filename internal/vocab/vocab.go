// Package vocab maps names to dense integer ids and back.
package vocab

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

var (
	// ErrFrozen is returned when inserting into a frozen vocabulary.
	ErrFrozen = errors.New("vocab: vocabulary is frozen")

	// ErrFull is returned when the id space of the vocabulary is exhausted.
	ErrFull = errors.New("vocab: id space exhausted")

	// ErrDuplicateName is returned when a name list contains the same name twice.
	ErrDuplicateName = errors.New("vocab: duplicate name")

	// ErrInvalidNumericName is returned when a numeric vocabulary receives a non-numeric name.
	ErrInvalidNumericName = errors.New("vocab: invalid numeric name")
)

// ID is the set of id types a Vocabulary can hand out.
type ID interface {
	~uint16 | ~uint32
}

// Vocabulary is a bijection between names and the dense ids 0..Len()-1.
//
// While loading, Insert may be called concurrently. After Freeze the
// vocabulary is read-only.
type Vocabulary[T ID] struct {
	mu       sync.RWMutex
	nameToID map[string]T
	idToName []string
	numeric  bool
	size     uint64
	frozen   bool
}

// New returns an empty vocabulary.
func New[T ID](capacity int) *Vocabulary[T] {
	return &Vocabulary[T]{
		nameToID: make(map[string]T, capacity),
		idToName: make([]string, 0, capacity),
	}
}

// NewNumeric returns a vocabulary whose names are the decimal ids "0".."n-1".
// No map is materialized.
func NewNumeric[T ID](n uint64) *Vocabulary[T] {
	return &Vocabulary[T]{numeric: true, size: n}
}

// FromNames builds a frozen vocabulary assigning names[i] the id i.
func FromNames[T ID](names []string) (*Vocabulary[T], error) {
	if uint64(len(names)) > maxID[T]()+1 {
		return nil, fmt.Errorf("%w: %d names", ErrFull, len(names))
	}

	v := New[T](len(names))
	for i, name := range names {
		if _, ok := v.nameToID[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		v.nameToID[name] = T(i)
		v.idToName = append(v.idToName, name)
	}
	v.frozen = true
	return v, nil
}

func maxID[T ID]() uint64 {
	return uint64(^T(0))
}

// Insert returns the id of name, assigning the next free id if it is new.
func (v *Vocabulary[T]) Insert(name string) (T, error) {
	if v.numeric {
		return v.insertNumeric(name)
	}

	v.mu.RLock()
	id, ok := v.nameToID[name]
	frozen := v.frozen
	v.mu.RUnlock()
	if ok {
		return id, nil
	}
	if frozen {
		return 0, fmt.Errorf("%w: %q", ErrFrozen, name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if id, ok := v.nameToID[name]; ok {
		return id, nil
	}
	if uint64(len(v.idToName)) > maxID[T]() {
		return 0, ErrFull
	}
	id = T(len(v.idToName))
	v.nameToID[name] = id
	v.idToName = append(v.idToName, name)
	return id, nil
}

func (v *Vocabulary[T]) insertNumeric(name string) (T, error) {
	raw, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericName, name)
	}
	if raw > maxID[T]() {
		return 0, fmt.Errorf("%w: %d", ErrFull, raw)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if raw >= v.size {
		if v.frozen {
			return 0, fmt.Errorf("%w: %q", ErrFrozen, name)
		}
		v.size = raw + 1
	}
	return T(raw), nil
}

// Grow extends a numeric vocabulary so that it holds at least n ids.
func (v *Vocabulary[T]) Grow(n uint64) {
	if !v.numeric {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.frozen && n > v.size {
		v.size = n
	}
}

// ID returns the id of name.
func (v *Vocabulary[T]) ID(name string) (T, bool) {
	if v.numeric {
		raw, err := strconv.ParseUint(name, 10, 64)
		if err != nil || raw >= v.Size() {
			return 0, false
		}
		return T(raw), true
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	id, ok := v.nameToID[name]
	return id, ok
}

// Name returns the name of id.
func (v *Vocabulary[T]) Name(id T) (string, bool) {
	if v.numeric {
		if uint64(id) >= v.Size() {
			return "", false
		}
		return strconv.FormatUint(uint64(id), 10), true
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if int(id) >= len(v.idToName) {
		return "", false
	}
	return v.idToName[id], true
}

// UncheckedName returns the name of id, which must be in range.
func (v *Vocabulary[T]) UncheckedName(id T) string {
	if v.numeric {
		return strconv.FormatUint(uint64(id), 10)
	}
	return v.idToName[id]
}

// Len returns the number of ids.
func (v *Vocabulary[T]) Len() int {
	return int(v.Size())
}

// Size returns the number of ids as uint64.
func (v *Vocabulary[T]) Size() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.numeric {
		return v.size
	}
	return uint64(len(v.idToName))
}

// IsNumeric reports whether names are the decimal ids themselves.
func (v *Vocabulary[T]) IsNumeric() bool { return v.numeric }

// Freeze makes the vocabulary read-only.
func (v *Vocabulary[T]) Freeze() {
	v.mu.Lock()
	v.frozen = true
	v.mu.Unlock()
}

// Names returns all names ordered by id.
func (v *Vocabulary[T]) Names() []string {
	n := v.Len()
	out := make([]string, n)
	for i := range n {
		out[i] = v.UncheckedName(T(i))
	}
	return out
}

// Subset returns a new frozen vocabulary holding the names of ids, in order.
// ids[k] becomes id k in the result.
func (v *Vocabulary[T]) Subset(ids []T) (*Vocabulary[T], error) {
	names := make([]string, len(ids))
	for k, id := range ids {
		name, ok := v.Name(id)
		if !ok {
			return nil, fmt.Errorf("vocab: unknown id %d", id)
		}
		names[k] = name
	}
	return FromNames[T](names)
}
