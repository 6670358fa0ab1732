package parallel

import (
	"context"
	"slices"
)

// SortStableFunc sorts s stably using cmp. Chunks are sorted concurrently and
// then merged pairwise; ties keep their original relative order.
func SortStableFunc[T any](ctx context.Context, s []T, workers int, cmp func(a, b T) int) error {
	workers = Workers(workers)
	if workers == 1 || len(s) < 4096 {
		slices.SortStableFunc(s, cmp)
		return ctx.Err()
	}

	chunk := (len(s) + workers - 1) / workers
	runs := make([][2]int, 0, workers)
	for start := 0; start < len(s); start += chunk {
		runs = append(runs, [2]int{start, min(start+chunk, len(s))})
	}

	if err := Each(ctx, len(runs), Options{Workers: workers, Grain: 1}, func(i int) error {
		slices.SortStableFunc(s[runs[i][0]:runs[i][1]], cmp)
		return nil
	}); err != nil {
		return err
	}

	buf := make([]T, len(s))
	src, dst := s, buf
	for len(runs) > 1 {
		next := make([][2]int, (len(runs)+1)/2)
		err := Each(ctx, len(next), Options{Workers: workers, Grain: 1}, func(i int) error {
			left := runs[2*i]
			if 2*i+1 == len(runs) {
				copy(dst[left[0]:left[1]], src[left[0]:left[1]])
				next[i] = left
				return nil
			}
			right := runs[2*i+1]
			merge(dst[left[0]:right[1]], src[left[0]:left[1]], src[right[0]:right[1]], cmp)
			next[i] = [2]int{left[0], right[1]}
			return nil
		})
		if err != nil {
			return err
		}
		runs = next
		src, dst = dst, src
	}

	if &src[0] != &s[0] {
		copy(s, src)
	}
	return nil
}

// merge writes the stable merge of a and b into out.
func merge[T any](out, a, b []T, cmp func(a, b T) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			out[k] = b[j]
			j++
		} else {
			out[k] = a[i]
			i++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
