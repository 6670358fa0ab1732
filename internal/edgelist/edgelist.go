// Package edgelist implements the edge list construction pipeline: it turns
// shards of resolved edge tuples into a succinct sorted edge sequence plus
// index-aligned attribute arrays.
//
// One generic pipeline covers every combination of sorted input and present
// attribute columns:
//
//	sorted:   rows ──► slot = shard offset + local index ──► concurrent builder
//	unsorted: rows ──► materialize ──► symmetrize ──► parallel sort ──► dedup ──► concurrent builder
//
// Attribute columns are described by Columns and written at the same slot as
// the edge code.
package edgelist

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/graphgo/internal/edgecode"
	"github.com/hupe1980/graphgo/internal/eliasfano"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/progress"
)

// tupleBytes approximates the in-memory size of a Tuple.
const tupleBytes = 24

// progressEvery is the number of rows between two progress updates of a shard.
const progressEvery = 4096

// Columns describes which optional attribute columns are present.
type Columns struct {
	Weights   bool
	EdgeTypes bool
}

// Tuple is a fully resolved edge.
type Tuple struct {
	Src      model.NodeID
	Dst      model.NodeID
	Weight   float64
	EdgeType model.EdgeTypeID
}

func compareTuples(a, b Tuple) int {
	if c := cmp.Compare(a.Src, b.Src); c != 0 {
		return c
	}
	return cmp.Compare(a.Dst, b.Dst)
}

// Flags are the structural assertions made by the caller about the input.
type Flags struct {
	// Directed graphs keep edges as given; undirected graphs store both directions.
	Directed bool
	// Complete asserts that an undirected input already lists both directions.
	Complete bool
	// Correct asserts that the input is free of structural errors.
	Correct bool
	// Duplicates allows repeated (src, dst) pairs.
	Duplicates bool
	// Sorted asserts globally sorted, complete input. Requires Complete,
	// Correct and EdgesNumber.
	Sorted bool
	// EdgesNumber is the number of rows, or -1 if unknown.
	EdgesNumber int64
}

// Config configures one pipeline run.
type Config struct {
	Flags
	Columns Columns

	// NodesNumber returns the final node count. For unsorted input it is
	// evaluated after all rows were consumed.
	NodesNumber func() uint64

	Workers   int
	Logger    *slog.Logger
	Progress  progress.Sink
	Resources *resource.Controller
}

// Result is the output of a pipeline run.
type Result struct {
	Edges       *eliasfano.Sequence
	Weights     []float64
	EdgeTypes   []model.EdgeTypeID
	NodesNumber uint64
	NodeBits    uint8
	Selfloops   uint64
}

// Build runs the pipeline over shards.
func Build(ctx context.Context, cfg Config, shards []model.Shard[Tuple]) (*Result, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	cfg.Progress = progress.OrNoop(cfg.Progress)
	cfg.Workers = parallel.Workers(cfg.Workers)

	start := time.Now()

	var (
		res *Result
		err error
	)
	if cfg.Sorted {
		res, err = buildSorted(ctx, cfg, shards)
	} else {
		res, err = buildUnsorted(ctx, cfg, shards)
	}
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("edge list built",
		"edges", res.Edges.Len(),
		"nodes", res.NodesNumber,
		"selfloops", res.Selfloops,
		"sorted", cfg.Sorted,
		"bytes", res.Edges.SizeInBytes(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

func (cfg *Config) checkWeight(t Tuple) error {
	if !cfg.Columns.Weights {
		return nil
	}
	if !(t.Weight > 0) || math.IsInf(t.Weight, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, t.Weight)
	}
	return nil
}

func (cfg *Config) attributeBytes(n uint64) int64 {
	var b uint64
	if cfg.Columns.Weights {
		b += 8 * n
	}
	if cfg.Columns.EdgeTypes {
		b += 4 * n
	}
	return int64(b)
}

// output holds the builder and attribute arrays being filled.
type output struct {
	cfg       *Config
	builder   *eliasfano.Builder
	weights   []float64
	edgeTypes []model.EdgeTypeID
	nodes     uint64
	nodeBits  uint8
	selfloops parallel.Counters
}

func newOutput(cfg *Config, edges, nodes uint64) (*output, error) {
	bits := edgecode.NodeBits(nodes)
	b, err := eliasfano.NewBuilder(edges, edgecode.Universe(nodes, bits))
	if err != nil {
		return nil, err
	}

	o := &output{
		cfg:       cfg,
		builder:   b,
		nodes:     nodes,
		nodeBits:  bits,
		selfloops: parallel.NewCounters(cfg.Workers),
	}
	if cfg.Columns.Weights {
		o.weights = make([]float64, edges)
	}
	if cfg.Columns.EdgeTypes {
		o.edgeTypes = make([]model.EdgeTypeID, edges)
	}
	return o, nil
}

// set writes t into slot. Distinct slots may be written concurrently.
func (o *output) set(worker int, slot uint64, t Tuple) error {
	if uint64(t.Src) >= o.nodes || uint64(t.Dst) >= o.nodes {
		return fmt.Errorf("%w: edge (%d, %d) with %d nodes", ErrNodeOutOfRange, t.Src, t.Dst, o.nodes)
	}
	if err := o.builder.Set(slot, edgecode.Encode(uint32(t.Src), uint32(t.Dst), o.nodeBits)); err != nil {
		return err
	}
	if o.weights != nil {
		o.weights[slot] = t.Weight
	}
	if o.edgeTypes != nil {
		o.edgeTypes[slot] = t.EdgeType
	}
	if t.Src == t.Dst {
		o.selfloops.Add(worker, 1)
	}
	return nil
}

func (o *output) build() (*Result, error) {
	seq, err := o.builder.Build()
	if err != nil {
		return nil, err
	}
	return &Result{
		Edges:       seq,
		Weights:     o.weights,
		EdgeTypes:   o.edgeTypes,
		NodesNumber: o.nodes,
		NodeBits:    o.nodeBits,
		Selfloops:   uint64(o.selfloops.Sum()),
	}, nil
}
