package eliasfano

import (
	"fmt"
	"iter"
	"math/bits"
	"sort"

	bbitset "github.com/bits-and-blooms/bitset"
)

// SampleRate is the distance, in ones (or zeros), between two select samples.
const SampleRate = 256

// layout holds the sizing shared by Builder and Sequence.
type layout struct {
	n        uint64
	universe uint64
	lowBits  uint
	highLen  uint64
}

func newLayout(n, universe uint64) layout {
	var l uint
	if n > 0 && universe > n {
		l = uint(bits.Len64(universe/n) - 1)
	}

	var maxHigh uint64
	if universe > 0 {
		maxHigh = (universe - 1) >> l
	}

	return layout{
		n:        n,
		universe: universe,
		lowBits:  l,
		highLen:  n + maxHigh + 1,
	}
}

func (l layout) lowMask() uint64 {
	return (uint64(1) << l.lowBits) - 1
}

// Sequence is an immutable Elias-Fano encoded non-decreasing sequence.
// It is safe for concurrent use.
type Sequence struct {
	layout

	high  *bbitset.BitSet
	low   []uint64
	ones  []uint64
	zeros []uint64
}

func newSequence(lay layout, highWords, lowWords []uint64) *Sequence {
	s := &Sequence{
		layout: lay,
		high:   bbitset.FromWithLength(uint(lay.highLen), highWords),
		low:    lowWords,
	}
	s.ones = samplePositions(highWords, lay.highLen, false)
	s.zeros = samplePositions(highWords, lay.highLen, true)
	return s
}

// Len returns the number of elements.
func (s *Sequence) Len() uint64 { return s.n }

// Universe returns the exclusive upper bound of the stored values.
func (s *Sequence) Universe() uint64 { return s.universe }

// Get returns the i-th value.
func (s *Sequence) Get(i uint64) (uint64, error) {
	if i >= s.n {
		return 0, fmt.Errorf("%w: %d >= %d", ErrOutOfRange, i, s.n)
	}
	return s.UncheckedGet(i), nil
}

// UncheckedGet returns the i-th value without bounds checking.
// The caller guarantees i < Len().
func (s *Sequence) UncheckedGet(i uint64) uint64 {
	pos := s.select1(i)
	return (pos-i)<<s.lowBits | s.lowAt(i)
}

// LowerBound returns the index of the first element >= v, or Len() if none.
func (s *Sequence) LowerBound(v uint64) uint64 {
	if s.n == 0 || v >= s.universe {
		return s.n
	}

	h := v >> s.lowBits
	var start uint64
	if h > 0 {
		start = s.select0(h-1) + 1 - h
	}
	end := s.select0(h) - h

	target := v & s.lowMask()
	off := sort.Search(int(end-start), func(j int) bool {
		return s.lowAt(start+uint64(j)) >= target
	})
	return start + uint64(off)
}

// Rank returns the index of the first element equal to v.
func (s *Sequence) Rank(v uint64) (uint64, bool) {
	i := s.LowerBound(v)
	if i < s.n && s.UncheckedGet(i) == v {
		return i, true
	}
	return 0, false
}

// Contains reports whether v is stored.
func (s *Sequence) Contains(v uint64) bool {
	_, ok := s.Rank(v)
	return ok
}

// Range returns the half-open index range of the elements in [low, high).
func (s *Sequence) Range(low, high uint64) (start, end uint64) {
	start = s.LowerBound(low)
	if high <= low {
		return start, start
	}
	return start, s.LowerBound(high)
}

// Iter yields (index, value) for the elements in [start, end).
func (s *Sequence) Iter(start, end uint64) iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		end = min(end, s.n)
		if start >= end {
			return
		}

		pos := s.select1(start)
		for i := start; i < end; i++ {
			if i > start {
				next, _ := s.high.NextSet(uint(pos + 1))
				pos = uint64(next)
			}
			if !yield(i, (pos-i)<<s.lowBits|s.lowAt(i)) {
				return
			}
		}
	}
}

// Values decodes the whole sequence.
func (s *Sequence) Values() []uint64 {
	out := make([]uint64, 0, s.n)
	for _, v := range s.Iter(0, s.n) {
		out = append(out, v)
	}
	return out
}

// SizeInBytes returns the memory used by the encoded representation.
func (s *Sequence) SizeInBytes() uint64 {
	words := len(s.high.Words()) + len(s.low) + len(s.ones) + len(s.zeros)
	return uint64(words) * 8
}

func (s *Sequence) lowAt(i uint64) uint64 {
	l := uint64(s.lowBits)
	if l == 0 {
		return 0
	}

	offset := i * l
	w, shift := offset/64, offset%64
	v := s.low[w] >> shift
	if shift+l > 64 {
		v |= s.low[w+1] << (64 - shift)
	}
	return v & s.lowMask()
}

// select1 returns the position of the k-th (0-based) set bit.
func (s *Sequence) select1(k uint64) uint64 {
	return selectFrom(s.high.Words(), s.ones[k/SampleRate], k%SampleRate, false)
}

// select0 returns the position of the k-th (0-based) clear bit.
func (s *Sequence) select0(k uint64) uint64 {
	return selectFrom(s.high.Words(), s.zeros[k/SampleRate], k%SampleRate, true)
}

// selectFrom returns the position of the r-th matching bit at or after the
// matching bit at position pos.
func selectFrom(words []uint64, pos, r uint64, invert bool) uint64 {
	w := pos / 64
	word := words[w]
	if invert {
		word = ^word
	}
	word &^= (uint64(1) << (pos % 64)) - 1

	for {
		c := uint64(bits.OnesCount64(word))
		if c > r {
			return w*64 + selectInWord(word, r)
		}
		r -= c
		w++
		word = words[w]
		if invert {
			word = ^word
		}
	}
}

func selectInWord(word, k uint64) uint64 {
	for ; k > 0; k-- {
		word &= word - 1
	}
	return uint64(bits.TrailingZeros64(word))
}

// samplePositions records the position of every SampleRate-th set bit (or
// clear bit when invert is set) within the first length bits.
func samplePositions(words []uint64, length uint64, invert bool) []uint64 {
	var (
		out  []uint64
		seen uint64
		next uint64
	)
	for w, word := range words {
		if invert {
			word = ^word
			if rem := length - uint64(w)*64; rem < 64 {
				word &= (uint64(1) << rem) - 1
			}
		}
		c := uint64(bits.OnesCount64(word))
		for next < seen+c {
			out = append(out, uint64(w)*64+selectInWord(word, next-seen))
			next += SampleRate
		}
		seen += c
	}
	return out
}
