// Package edgecode packs a (src, dst) node pair into a single sortable uint64.
//
// code(src, dst) = src<<bits | dst, where bits = ceil(log2(max(n, 1))).
// Codes are strictly monotonic in the lexicographic order of (src, dst), so all
// edges leaving a node occupy a contiguous range of a sorted code sequence.
package edgecode

import "math/bits"

// NodeBits returns the minimal bit width able to hold every id in [0, n).
func NodeBits(n uint64) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(bits.Len64(n - 1))
}

// Encode packs (src, dst). Callers guarantee src, dst < 2^nodeBits.
func Encode(src, dst uint32, nodeBits uint8) uint64 {
	return uint64(src)<<nodeBits | uint64(dst)
}

// Decode is the inverse of Encode.
func Decode(code uint64, nodeBits uint8) (src, dst uint32) {
	return uint32(code >> nodeBits), uint32(code & Mask(nodeBits))
}

// Src extracts the source node of code.
func Src(code uint64, nodeBits uint8) uint32 {
	return uint32(code >> nodeBits)
}

// Dst extracts the destination node of code.
func Dst(code uint64, nodeBits uint8) uint32 {
	return uint32(code & Mask(nodeBits))
}

// Mask returns the low-bit mask selecting the destination part of a code.
func Mask(nodeBits uint8) uint64 {
	return (uint64(1) << nodeBits) - 1
}

// Universe returns the exclusive upper bound of all codes of a graph with n
// nodes, i.e. code(n-1, n-1) + 1. It is 0 for an empty graph.
func Universe(n uint64, nodeBits uint8) uint64 {
	if n == 0 {
		return 0
	}
	last := uint32(n - 1)
	return Encode(last, last, nodeBits) + 1
}
