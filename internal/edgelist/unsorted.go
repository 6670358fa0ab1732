package edgelist

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

func buildUnsorted(ctx context.Context, cfg Config, shards []model.Shard[Tuple]) (*Result, error) {
	tuples, err := materialize(ctx, &cfg, shards)
	if err != nil {
		return nil, err
	}

	expand := !cfg.Directed && !cfg.Complete
	if expand {
		tuples = symmetrize(tuples)
	}

	release, err := cfg.Resources.Reserve("edge buffer", int64(len(tuples))*tupleBytes + cfg.attributeBytes(uint64(len(tuples))))
	if err != nil {
		return nil, err
	}
	defer release()

	cfg.Progress.Start("sorting edges", uint64(len(tuples)))
	if err := parallel.SortStableFunc(ctx, tuples, cfg.Workers, compareTuples); err != nil {
		return nil, err
	}
	cfg.Progress.Finish()

	if !cfg.Duplicates {
		var collapsed int
		tuples, collapsed, err = dedup(tuples, cfg.Complete && cfg.Correct)
		if err != nil {
			return nil, err
		}
		if collapsed > 0 {
			cfg.Logger.Debug("collapsed duplicate edges", "count", collapsed)
		}
	}

	if !cfg.Directed {
		if err := checkSymmetry(ctx, &cfg, tuples, !expand); err != nil {
			return nil, err
		}
	}

	out, err := newOutput(&cfg, uint64(len(tuples)), cfg.NodesNumber())
	if err != nil {
		return nil, err
	}

	cfg.Progress.Start("building edge sequence", uint64(len(tuples)))
	err = parallel.For(ctx, len(tuples), parallel.Options{Workers: cfg.Workers}, func(worker, start, end int) error {
		for i := start; i < end; i++ {
			if err := out.set(worker, uint64(i), tuples[i]); err != nil {
				return err
			}
		}
		cfg.Progress.Add(uint64(end - start))
		return nil
	})
	cfg.Progress.Finish()
	if err != nil {
		return nil, err
	}

	return out.build()
}

// materialize drains every shard concurrently, keeping shard order.
func materialize(ctx context.Context, cfg *Config, shards []model.Shard[Tuple]) ([]Tuple, error) {
	parts := make([][]Tuple, len(shards))

	var expected uint64
	if cfg.EdgesNumber > 0 {
		expected = uint64(cfg.EdgesNumber)
	}
	cfg.Progress.Start("loading edges", expected)
	err := parallel.Each(ctx, len(shards), parallel.Options{Workers: cfg.Workers, Grain: 1}, func(i int) error {
		local := make([]Tuple, 0, max(shards[i].Len, 0))
		for row := range shards[i].Rows {
			if row.Err != nil {
				return &LineError{Line: row.Line, Err: row.Err}
			}
			if err := cfg.checkWeight(row.Value); err != nil {
				return &LineError{Line: row.Line, Err: err}
			}
			local = append(local, row.Value)
			if len(local)%progressEvery == 0 {
				cfg.Progress.Add(progressEvery)
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		cfg.Progress.Add(uint64(len(local) % progressEvery))
		parts[i] = local
		return nil
	})
	cfg.Progress.Finish()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if cfg.EdgesNumber >= 0 && int64(total) != cfg.EdgesNumber {
		return nil, fmt.Errorf("%w: declared %d, read %d", ErrEdgeCountMismatch, cfg.EdgesNumber, total)
	}

	tuples := make([]Tuple, 0, total)
	for _, p := range parts {
		tuples = append(tuples, p...)
	}
	return tuples, nil
}

// symmetrize appends the reverse of every non self-loop edge.
func symmetrize(tuples []Tuple) []Tuple {
	n := len(tuples)
	tuples = slices.Grow(tuples, n)
	for i := 0; i < n; i++ {
		t := tuples[i]
		if t.Src != t.Dst {
			t.Src, t.Dst = t.Dst, t.Src
			tuples = append(tuples, t)
		}
	}
	return tuples
}

// dedup collapses runs of equal (src, dst) keeping the first tuple. When
// strict is set a duplicate is an error instead.
func dedup(tuples []Tuple, strict bool) ([]Tuple, int, error) {
	if len(tuples) < 2 {
		return tuples, 0, nil
	}
	w := 1
	for r := 1; r < len(tuples); r++ {
		if compareTuples(tuples[r], tuples[w-1]) == 0 {
			if strict {
				t := tuples[r]
				return nil, 0, fmt.Errorf("%w: (%d, %d)", ErrDuplicateEdge, t.Src, t.Dst)
			}
			continue
		}
		tuples[w] = tuples[r]
		w++
	}
	return tuples[:w], len(tuples) - w, nil
}
