// Package bitset provides the atomic bitset that concurrent builders fill:
// the Elias-Fano high and low bit arrays, builder slot occupancy, and the
// in-degree marks of the structure statistics.
package bitset
