package edgelist

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/eliasfano"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

func buildSorted(ctx context.Context, cfg Config, shards []model.Shard[Tuple]) (*Result, error) {
	if !cfg.Complete || !cfg.Correct || cfg.EdgesNumber < 0 {
		return nil, ErrSortedRequirements
	}
	nodes := cfg.NodesNumber()
	if nodes == 0 && cfg.EdgesNumber > 0 {
		return nil, ErrSortedRequirements
	}

	offsets := make([]uint64, len(shards))
	var total uint64
	for i, s := range shards {
		if s.Len < 0 {
			return nil, fmt.Errorf("%w: shard %d", ErrShardLengthUnknown, i)
		}
		offsets[i] = total
		total += uint64(s.Len)
	}
	if total != uint64(cfg.EdgesNumber) {
		return nil, fmt.Errorf("%w: declared %d, shards hold %d", ErrEdgeCountMismatch, cfg.EdgesNumber, total)
	}

	release, err := cfg.Resources.Reserve("edge attributes", cfg.attributeBytes(total))
	if err != nil {
		return nil, err
	}
	defer release()

	out, err := newOutput(&cfg, total, nodes)
	if err != nil {
		return nil, err
	}

	cfg.Progress.Start("building edge sequence", total)
	err = parallel.For(ctx, len(shards), parallel.Options{Workers: cfg.Workers, Grain: 1}, func(worker, start, end int) error {
		for i := start; i < end; i++ {
			if err := fillShard(ctx, &cfg, out, worker, offsets[i], shards[i]); err != nil {
				return err
			}
		}
		return nil
	})
	cfg.Progress.Finish()
	if err != nil {
		return nil, err
	}

	res, err := out.build()
	if err != nil {
		if errors.Is(err, eliasfano.ErrNotMonotone) {
			return nil, fmt.Errorf("%w: %w", ErrNotSorted, err)
		}
		return nil, err
	}

	if !cfg.Duplicates {
		if err := checkStrict(res); err != nil {
			return nil, err
		}
	}
	if !cfg.Directed {
		if err := checkSequenceSymmetry(ctx, &cfg, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func fillShard(ctx context.Context, cfg *Config, out *output, worker int, offset uint64, s model.Shard[Tuple]) error {
	var local uint64
	for row := range s.Rows {
		if row.Err != nil {
			return &LineError{Line: row.Line, Err: row.Err}
		}
		if local >= uint64(s.Len) {
			return fmt.Errorf("%w: shard yields more than %d rows", ErrEdgeCountMismatch, s.Len)
		}
		if err := cfg.checkWeight(row.Value); err != nil {
			return &LineError{Line: row.Line, Err: err}
		}
		if err := out.set(worker, offset+local, row.Value); err != nil {
			return &LineError{Line: row.Line, Err: err}
		}
		local++
		if local%progressEvery == 0 {
			cfg.Progress.Add(progressEvery)
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	cfg.Progress.Add(local % progressEvery)

	if local != uint64(s.Len) {
		return fmt.Errorf("%w: shard declared %d rows, yielded %d", ErrEdgeCountMismatch, s.Len, local)
	}
	return nil
}

// checkStrict rejects equal adjacent codes.
func checkStrict(res *Result) error {
	var prev uint64
	for i, code := range res.Edges.Iter(0, res.Edges.Len()) {
		if i > 0 && code == prev {
			src, dst := edgecode.Decode(code, res.NodeBits)
			return fmt.Errorf("%w: (%d, %d)", ErrDuplicateEdge, src, dst)
		}
		prev = code
	}
	return nil
}
