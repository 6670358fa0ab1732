// Package observability adapts graphgo metrics to Prometheus.
package observability

import (
	"time"

	"github.com/hupe1980/graphgo"
	"github.com/prometheus/client_golang/prometheus"
)

var _ graphgo.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements graphgo.MetricsCollector.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	edges     prometheus.Counter
	walks     prometheus.Counter
	rows      *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphgo_operation_latency_seconds",
			Help:    "Latency of graph operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		edges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphgo_built_edges_total",
			Help: "Total directed edges of successfully built graphs",
		}),
		walks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphgo_walks_total",
			Help: "Total random walks generated",
		}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphgo_batch_rows_total",
			Help: "Total rows of training batches",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.edges, c.walks, c.rows} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBuild implements graphgo.MetricsCollector.
func (c *PrometheusCollector) RecordBuild(edges uint64, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
	if err == nil {
		c.edges.Add(float64(edges))
	}
}

// RecordWalks implements graphgo.MetricsCollector.
func (c *PrometheusCollector) RecordWalks(walks int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("walks", status(err)).Observe(d.Seconds())
	if err == nil {
		c.walks.Add(float64(walks))
	}
}

// RecordBatch implements graphgo.MetricsCollector.
func (c *PrometheusCollector) RecordBatch(kind string, rows int, d time.Duration, err error) {
	c.opLatency.WithLabelValues(kind, status(err)).Observe(d.Seconds())
	if err == nil {
		c.rows.WithLabelValues(kind).Add(float64(rows))
	}
}

// RecordTransform implements graphgo.MetricsCollector.
func (c *PrometheusCollector) RecordTransform(op string, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
}
