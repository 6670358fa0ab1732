// Package eliasfano implements a succinct monotone sequence of uint64 values
// (Elias-Fano encoding) together with a concurrent builder.
//
// # Layout
//
// Each value v is split into a high part v>>l and a low part v&(1<<l-1),
// with l = floor(log2(universe/n)). Element i sets bit high(v_i)+i in the
// high-bit vector, so the high vector holds n ones and high(max)+1 zeros.
// Low parts are packed back to back, l bits each.
//
//	value:     |   high part    | low (l bits) |
//	high bits: 1 1 0 1 0 0 1 1 1 0 ...   (unary gaps)
//	low bits:  [l][l][l][l]...           (index aligned)
//
// # Queries
//
//   - Get: select1(i) - i gives the high part, the low part is read directly
//   - LowerBound: select0 locates the high bucket, low parts are scanned inside it
//   - Range: two LowerBound calls give the half-open index range of [low, high)
//
// Select is answered from samples taken every SampleRate ones (or zeros)
// followed by a word-level popcount scan.
//
// # Concurrent Builder
//
// A Builder is filled through Set(index, value). Calls with pairwise distinct
// indices are safe from any number of goroutines: every write is an atomic OR
// into shared words, and slots never overlap in the low array. Build checks
// that every slot was written exactly once and that values are monotone.
package eliasfano
