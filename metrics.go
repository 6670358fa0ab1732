package graphgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// observability.PrometheusCollector is a ready-made implementation.
type MetricsCollector interface {
	// RecordBuild is called after each graph construction.
	// edges is the number of directed edges of the result, err is nil if successful.
	RecordBuild(edges uint64, duration time.Duration, err error)

	// RecordWalks is called after each walk generation.
	RecordWalks(walks int, duration time.Duration, err error)

	// RecordBatch is called after each training batch. kind is one of
	// "cooccurrence", "node2vec" or "edge_prediction".
	RecordBatch(kind string, rows int, duration time.Duration, err error)

	// RecordTransform is called after each graph transformation. op is one
	// of "filter", "subgraph", "holdout" or "louvain".
	RecordTransform(op string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(uint64, time.Duration, error)      {}
func (NoopMetricsCollector) RecordWalks(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordBatch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordTransform(string, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildEdges      atomic.Int64
	BuildTotalNanos atomic.Int64
	WalkCount       atomic.Int64
	WalkErrors      atomic.Int64
	WalksGenerated  atomic.Int64
	WalkTotalNanos  atomic.Int64
	BatchCount      atomic.Int64
	BatchErrors     atomic.Int64
	BatchRows       atomic.Int64
	TransformCount  atomic.Int64
	TransformErrors atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(edges uint64, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildEdges.Add(int64(edges))
}

// RecordWalks implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWalks(walks int, duration time.Duration, err error) {
	b.WalkCount.Add(1)
	b.WalkTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WalkErrors.Add(1)
		return
	}
	b.WalksGenerated.Add(int64(walks))
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(_ string, rows int, _ time.Duration, err error) {
	b.BatchCount.Add(1)
	if err != nil {
		b.BatchErrors.Add(1)
		return
	}
	b.BatchRows.Add(int64(rows))
}

// RecordTransform implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTransform(_ string, _ time.Duration, err error) {
	b.TransformCount.Add(1)
	if err != nil {
		b.TransformErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		BuildEdges:      b.BuildEdges.Load(),
		BuildAvgNanos:   avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		WalkCount:       b.WalkCount.Load(),
		WalkErrors:      b.WalkErrors.Load(),
		WalksGenerated:  b.WalksGenerated.Load(),
		WalkAvgNanos:    avg(b.WalkTotalNanos.Load(), b.WalkCount.Load()),
		BatchCount:      b.BatchCount.Load(),
		BatchErrors:     b.BatchErrors.Load(),
		BatchRows:       b.BatchRows.Load(),
		TransformCount:  b.TransformCount.Load(),
		TransformErrors: b.TransformErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount      int64
	BuildErrors     int64
	BuildEdges      int64
	BuildAvgNanos   int64
	WalkCount       int64
	WalkErrors      int64
	WalksGenerated  int64
	WalkAvgNanos    int64
	BatchCount      int64
	BatchErrors     int64
	BatchRows       int64
	TransformCount  int64
	TransformErrors int64
}
