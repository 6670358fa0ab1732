package eliasfano

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/graphgo/internal/bitset"
)

// Builder fills an Elias-Fano sequence slot by slot.
//
// Set may be called concurrently as long as the indices passed to concurrent
// callers are pairwise distinct. Build must only be called after all writers
// have returned.
type Builder struct {
	layout

	high     *bitset.BitSet
	low      *bitset.BitSet
	occupied *bitset.BitSet

	// checksum accumulates index*high(value) (mod 2^64). It equals the same
	// sum recomputed from the high vector only if slots were written in
	// non-decreasing order of their high parts.
	checksum    atomic.Uint64
	doubleWrite atomic.Bool
}

// NewBuilder allocates a builder for n values drawn from [0, universe).
func NewBuilder(n, universe uint64) (*Builder, error) {
	if universe == 0 && n > 0 {
		return nil, fmt.Errorf("%w: %d values", ErrInvalidUniverse, n)
	}

	lay := newLayout(n, universe)
	return &Builder{
		layout:   lay,
		high:     bitset.New(lay.highLen),
		low:      bitset.New(n * uint64(lay.lowBits)),
		occupied: bitset.New(n),
	}, nil
}

// Len returns the number of slots.
func (b *Builder) Len() uint64 { return b.n }

// Set writes value into slot index.
func (b *Builder) Set(index, value uint64) error {
	if index >= b.n {
		return fmt.Errorf("%w: slot %d >= %d", ErrOutOfRange, index, b.n)
	}
	if value >= b.universe {
		return fmt.Errorf("%w: %d >= %d", ErrValueOutOfUniverse, value, b.universe)
	}
	if b.occupied.TestAndSet(index) {
		b.doubleWrite.Store(true)
		return fmt.Errorf("%w: %d", ErrDuplicateSlot, index)
	}

	h := value >> b.lowBits
	b.high.Set(h + index)
	b.low.OrBits(index*uint64(b.lowBits), value, b.lowBits)
	b.checksum.Add(index * h)
	return nil
}

// Build finalizes the sequence.
func (b *Builder) Build() (*Sequence, error) {
	if b.doubleWrite.Load() {
		return nil, ErrDuplicateSlot
	}
	if written := b.occupied.Count(); written != b.n {
		first := b.firstUnwritten()
		return nil, fmt.Errorf("%w: %d of %d slots written, first missing %d", ErrUnwrittenSlot, written, b.n, first)
	}
	if b.high.Count() != b.n {
		return nil, fmt.Errorf("%w: colliding high parts", ErrNotMonotone)
	}

	s := newSequence(b.layout, b.high.Words(), b.low.Words())

	var (
		sum  uint64
		prev uint64
	)
	for i, v := range s.Iter(0, s.n) {
		if i > 0 && v < prev {
			return nil, fmt.Errorf("%w: slot %d holds %d after %d", ErrNotMonotone, i, v, prev)
		}
		sum += i * (v >> s.lowBits)
		prev = v
	}
	if sum != b.checksum.Load() {
		return nil, fmt.Errorf("%w: high parts out of order", ErrNotMonotone)
	}

	return s, nil
}

func (b *Builder) firstUnwritten() uint64 {
	for i := uint64(0); i < b.n; i++ {
		if !b.occupied.Test(i) {
			return i
		}
	}
	return b.n
}

// FromSorted builds a sequence from values that are already non-decreasing.
func FromSorted(values []uint64, universe uint64) (*Sequence, error) {
	b, err := NewBuilder(uint64(len(values)), universe)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := b.Set(uint64(i), v); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
