package walk

import (
	"context"
	"maps"
	"slices"

	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

// CooccurrenceBatch holds the co-occurrence frequencies of node pairs, sorted
// by (source, destination).
type CooccurrenceBatch struct {
	Sources      []model.NodeID
	Destinations []model.NodeID
	// Frequencies are min-max normalized into [0, 1]. If every pair has the
	// same count, every frequency is 1.
	Frequencies []float64
}

// Len returns the number of pairs.
func (b *CooccurrenceBatch) Len() int { return len(b.Sources) }

// Cooccurrence counts how often two nodes appear within WindowSize positions
// of each other across the complete walks. Both orders of a pair are counted.
func (w *Walker) Cooccurrence(ctx context.Context) (*CooccurrenceBatch, error) {
	walks, err := w.Walks(ctx)
	if err != nil {
		return nil, err
	}

	window := w.params.WindowSize
	partials := make([]map[uint64]uint64, w.workers)
	err = parallel.For(ctx, len(walks), parallel.Options{Workers: w.workers}, func(worker, lo, hi int) error {
		counts := partials[worker]
		if counts == nil {
			counts = make(map[uint64]uint64)
			partials[worker] = counts
		}
		for _, walk := range walks[lo:hi] {
			for i, a := range walk {
				for j := i + 1; j < len(walk) && j <= i+window; j++ {
					b := walk[j]
					counts[pairKey(a, b)]++
					counts[pairKey(b, a)]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[uint64]uint64)
	for _, p := range partials {
		for k, c := range p {
			counts[k] += c
		}
	}

	keys := slices.Sorted(maps.Keys(counts))
	batch := &CooccurrenceBatch{
		Sources:      make([]model.NodeID, len(keys)),
		Destinations: make([]model.NodeID, len(keys)),
		Frequencies:  make([]float64, len(keys)),
	}
	if len(keys) == 0 {
		w.logger.Warn("no co-occurrences found", "walk_length", w.params.WalkLength)
		return batch, nil
	}

	lo, hi := counts[keys[0]], counts[keys[0]]
	for _, c := range counts {
		lo, hi = min(lo, c), max(hi, c)
	}
	for i, k := range keys {
		batch.Sources[i] = model.NodeID(k >> 32)
		batch.Destinations[i] = model.NodeID(k)
		if hi == lo {
			batch.Frequencies[i] = 1
		} else {
			batch.Frequencies[i] = float64(counts[k]-lo) / float64(hi-lo)
		}
	}

	w.logger.Debug("co-occurrences counted", "pairs", len(keys), "walks", len(walks))
	return batch, nil
}

func pairKey(a, b model.NodeID) uint64 {
	return uint64(a)<<32 | uint64(b)
}
