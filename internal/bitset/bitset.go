package bitset

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is a fixed-size bitset whose words are updated atomically, so
// goroutines filling disjoint bits of the same word never lose each other's
// writes. Indices at or beyond the size are ignored.
type BitSet struct {
	words []atomic.Uint64
	size  uint64
}

// New returns a cleared BitSet of size bits.
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

func (b *BitSet) word(i uint64) (*atomic.Uint64, uint64) {
	return &b.words[i>>6], uint64(1) << (i & 63)
}

// Set sets bit i.
func (b *BitSet) Set(i uint64) {
	if i < b.size {
		w, mask := b.word(i)
		w.Or(mask)
	}
}

// Test reports whether bit i is set.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.size {
		return false
	}
	w, mask := b.word(i)
	return w.Load()&mask != 0
}

// TestAndSet sets bit i and reports whether it was set before. Of several
// goroutines setting the same bit, exactly one observes false.
func (b *BitSet) TestAndSet(i uint64) bool {
	if i >= b.size {
		return false
	}
	w, mask := b.word(i)
	return w.Or(mask)&mask != 0
}

// OrBits ors the low width bits of value into the field starting at bit
// offset. A field may straddle two words. Fields extending past the size
// are ignored.
func (b *BitSet) OrBits(offset, value uint64, width uint) {
	if width == 0 || offset+uint64(width) > b.size {
		return
	}
	if width < 64 {
		value &= uint64(1)<<width - 1
	}

	idx, shift := offset>>6, uint(offset&63)
	b.words[idx].Or(value << shift)
	if shift+width > 64 {
		b.words[idx+1].Or(value >> (64 - shift))
	}
}

// Count returns the number of set bits.
func (b *BitSet) Count() uint64 {
	var n int
	for i := range b.words {
		n += bits.OnesCount64(b.words[i].Load())
	}
	return uint64(n)
}

// Words copies the backing words. Call it only after all writers finished.
func (b *BitSet) Words() []uint64 {
	out := make([]uint64, len(b.words))
	for i := range b.words {
		out[i] = b.words[i].Load()
	}
	return out
}
