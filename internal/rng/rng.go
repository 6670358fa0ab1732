// Package rng provides stateless, reproducible pseudo-random streams.
//
// Every random decision in walks and batches is derived from a seed and the
// index of the item being produced, never from shared mutable state, so the
// output does not depend on goroutine scheduling.
package rng

import "math/bits"

const golden = 0x9E3779B97F4A7C15

// SplitMix64 is one step of the splitmix64 generator: it advances x by the
// golden-ratio increment and returns the mixed output.
func SplitMix64(x uint64) uint64 {
	x += golden
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// Mix derives a seed from a base state and any number of indices.
func Mix(state uint64, indices ...uint64) uint64 {
	s := SplitMix64(state)
	for _, i := range indices {
		s = SplitMix64(s ^ SplitMix64(i))
	}
	return s
}

// Stream is a splitmix64 sequence. The zero value is valid.
type Stream struct {
	state uint64
}

// NewStream returns a stream starting at seed.
func NewStream(seed uint64) Stream {
	return Stream{state: seed}
}

// Uint64 returns the next value.
func (s *Stream) Uint64() uint64 {
	s.state += golden
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	return Float64(s.Uint64())
}

// IntN returns the next value in [0, n). n must be positive.
func (s *Stream) IntN(n int) int {
	return IntN(s.Uint64(), n)
}

// Float64 maps x onto [0, 1).
func Float64(x uint64) float64 {
	return float64(x>>11) * (1.0 / (1 << 53))
}

// IntN maps x onto [0, n) with Lemire's multiply-shift. n must be positive.
func IntN(x uint64, n int) int {
	hi, _ := bits.Mul64(x, uint64(n))
	return int(hi)
}

// Weighted samples an index with probability proportional to weights[i],
// by inverting the cumulative sum at u*total. Weights must be non-negative
// with a positive total; u must be in [0, 1).
func Weighted(weights []float64, u float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}

	target := u * total
	var acc float64
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}

	// Rounding can leave target == total; fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}
