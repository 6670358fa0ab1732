package metric

import (
	"cmp"
	"math"
)

// Intersection calls fn for every element present in both sorted slices.
// Duplicates are matched pairwise.
func Intersection[T cmp.Ordered](a, b []T, fn func(T)) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := cmp.Compare(a[i], b[j]); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			fn(a[i])
			i++
			j++
		}
	}
}

// IntersectionSize returns the number of common elements of two sorted slices.
func IntersectionSize[T cmp.Ordered](a, b []T) int {
	n := 0
	Intersection(a, b, func(T) { n++ })
	return n
}

// Jaccard returns |a ∩ b| / |a ∪ b| for two sorted sets.
// It returns 0 when either set is empty.
func Jaccard[T cmp.Ordered](a, b []T) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := IntersectionSize(a, b)
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// AdamicAdar returns the sum of 1/ln(degree(z)) over the common neighbours z.
// Neighbours of degree <= 1 are skipped so that the index stays finite.
func AdamicAdar[T cmp.Ordered](a, b []T, degree func(T) uint32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum float64
	Intersection(a, b, func(z T) {
		if d := degree(z); d > 1 {
			sum += 1 / math.Log(float64(d))
		}
	})
	return sum
}

// ResourceAllocation returns the sum of 1/degree(z) over the common neighbours z.
func ResourceAllocation[T cmp.Ordered](a, b []T, degree func(T) uint32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum float64
	Intersection(a, b, func(z T) {
		if d := degree(z); d > 0 {
			sum += 1 / float64(d)
		}
	})
	return sum
}

// PreferentialAttachment returns degree(a) * degree(b), optionally normalized
// by maxDegree^2 when maxDegree is positive.
func PreferentialAttachment(degreeA, degreeB, maxDegree uint32) float64 {
	pa := float64(degreeA) * float64(degreeB)
	if maxDegree == 0 {
		return pa
	}
	return pa / (float64(maxDegree) * float64(maxDegree))
}
