package edgelist

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/parallel"
)

// checkSymmetry verifies, on sorted tuples, that every non self-loop edge has
// its reverse (when requireReverse is set) carrying the same weight.
func checkSymmetry(ctx context.Context, cfg *Config, tuples []Tuple, requireReverse bool) error {
	if !requireReverse && !cfg.Columns.Weights {
		return nil
	}

	return parallel.Each(ctx, len(tuples), parallel.Options{Workers: cfg.Workers}, func(i int) error {
		t := tuples[i]
		if t.Src == t.Dst {
			return nil
		}
		j, ok := slices.BinarySearchFunc(tuples, Tuple{Src: t.Dst, Dst: t.Src}, compareTuples)
		if !ok {
			if requireReverse {
				return fmt.Errorf("%w: (%d, %d)", ErrIncompleteUndirected, t.Src, t.Dst)
			}
			return nil
		}
		if cfg.Columns.Weights && tuples[j].Weight != t.Weight {
			return fmt.Errorf("%w: (%d, %d) has %v, reverse has %v", ErrAsymmetricWeight, t.Src, t.Dst, t.Weight, tuples[j].Weight)
		}
		return nil
	})
}

// checkSequenceSymmetry is checkSymmetry over an already built sequence.
func checkSequenceSymmetry(ctx context.Context, cfg *Config, res *Result) error {
	n := int(res.Edges.Len())
	return parallel.For(ctx, n, parallel.Options{Workers: cfg.Workers}, func(_, start, end int) error {
		for i, code := range res.Edges.Iter(uint64(start), uint64(end)) {
			src, dst := edgecode.Decode(code, res.NodeBits)
			if src == dst {
				continue
			}
			j, ok := res.Edges.Rank(edgecode.Encode(dst, src, res.NodeBits))
			if !ok {
				return fmt.Errorf("%w: (%d, %d)", ErrIncompleteUndirected, src, dst)
			}
			if res.Weights != nil && res.Weights[i] != res.Weights[j] {
				return fmt.Errorf("%w: (%d, %d) has %v, reverse has %v", ErrAsymmetricWeight, src, dst, res.Weights[i], res.Weights[j])
			}
		}
		return nil
	})
}
