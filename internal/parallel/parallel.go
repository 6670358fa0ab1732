// Package parallel implements the data-parallel fork-join primitives used by
// graph construction, walk generation and batch assembly.
//
// Work is split into contiguous index chunks. A fixed number of workers pull
// chunks from a shared cursor, so each worker owns disjoint index ranges and
// results written at an item's index are reproducible regardless of
// scheduling. The first error cancels the remaining chunks.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

// Options configures a parallel loop.
type Options struct {
	// Workers is the number of goroutines. Defaults to GOMAXPROCS.
	Workers int

	// Grain is the chunk size. Defaults to n / (8 * Workers), at least 1.
	Grain int
}

// Workers normalizes a requested worker count.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For runs fn over [0, n) in chunks. fn receives the worker index in
// [0, Workers) and the half-open chunk [start, end).
func For(ctx context.Context, n int, opts Options, fn func(worker, start, end int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	workers := min(Workers(opts.Workers), n)
	grain := opts.Grain
	if grain <= 0 {
		grain = max(1, n/(8*workers))
	}

	var cursor atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				start := int(cursor.Add(int64(grain))) - grain
				if start >= n {
					return nil
				}
				if err := fn(w, start, min(start+grain, n)); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}

// Run is For for loops that neither fail nor get cancelled.
func Run(n int, opts Options, fn func(worker, start, end int)) {
	// For only fails on a cancelled context or an fn error; neither can occur.
	_ = For(context.Background(), n, opts, func(worker, start, end int) error {
		fn(worker, start, end)
		return nil
	})
}

// Each runs fn for every index in [0, n).
func Each(ctx context.Context, n int, opts Options, fn func(i int) error) error {
	return For(ctx, n, opts, func(_, start, end int) error {
		for i := start; i < end; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Counter is an int64 counter padded to its own cache line.
type Counter struct {
	_ cpu.CacheLinePad
	v int64
	_ cpu.CacheLinePad
}

// Counters holds one Counter per worker. Each worker only touches its own slot.
type Counters []Counter

// NewCounters allocates counters for workers.
func NewCounters(workers int) Counters {
	return make(Counters, Workers(workers))
}

// Add adds delta to the counter of worker.
func (c Counters) Add(worker int, delta int64) {
	c[worker].v += delta
}

// Sum returns the total over all workers. Call it after the loop finished.
func (c Counters) Sum() int64 {
	var total int64
	for i := range c {
		total += c[i].v
	}
	return total
}
