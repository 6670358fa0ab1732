package walk

import (
	"context"
	"fmt"

	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/model"
)

// Node2VecBatch is a CBOW/skipgram training batch. Row r has the central
// node Centrals[r] and the 2*WindowSize context nodes
// Contexts[r*ContextSize() : (r+1)*ContextSize()], the WindowSize nodes
// before the central node followed by the WindowSize nodes after it.
type Node2VecBatch struct {
	Contexts   []model.NodeID
	Centrals   []model.NodeID
	WindowSize int
}

// Len returns the number of rows.
func (b *Node2VecBatch) Len() int { return len(b.Centrals) }

// ContextSize returns the number of context nodes per row.
func (b *Node2VecBatch) ContextSize() int { return 2 * b.WindowSize }

// Context returns the context nodes of row r.
func (b *Node2VecBatch) Context(r int) []model.NodeID {
	size := b.ContextSize()
	return b.Contexts[r*size : (r+1)*size]
}

// Node2VecBatch generates the random walks with indices
// [index*batchSize, (index+1)*batchSize) and slides a window over them.
// Walks too short to hold a full window contribute no rows.
func (w *Walker) Node2VecBatch(ctx context.Context, batchSize int, index uint64) (*Node2VecBatch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	if len(w.starts) == 0 {
		return nil, ErrNoEdges
	}

	window := w.params.WindowSize
	batch := &Node2VecBatch{WindowSize: window}
	if w.params.WalkLength < uint64(2*window+1) {
		w.logger.Warn("walks are too short for the window, batch is empty",
			"walk_length", w.params.WalkLength,
			"window_size", window,
		)
		return batch, nil
	}

	from := index * uint64(batchSize)
	walks, err := w.generate(ctx, "node2vec batch", from, uint64(batchSize), w.randomStart, false)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, len(walks)+1)
	for i, walk := range walks {
		offsets[i+1] = offsets[i] + max(0, len(walk)-2*window)
	}
	rows := offsets[len(walks)]
	if rows == 0 {
		w.logger.Warn("no walk reached the window size, batch is empty", "index", index)
		return batch, nil
	}

	release, err := w.resources.Reserve("node2vec batch", int64(rows * (2*window + 1) * 4))
	if err != nil {
		return nil, err
	}
	defer release()

	size := 2 * window
	batch.Contexts = make([]model.NodeID, rows*size)
	batch.Centrals = make([]model.NodeID, rows)
	err = parallel.Each(ctx, len(walks), parallel.Options{Workers: w.workers}, func(i int) error {
		walk := walks[i]
		for r, c := offsets[i], window; c < len(walk)-window; r, c = r+1, c+1 {
			batch.Centrals[r] = walk[c]
			row := batch.Contexts[r*size : (r+1)*size]
			copy(row, walk[c-window:c])
			copy(row[window:], walk[c+1:c+window+1])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}
