package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	c.RecordBuild(10, time.Millisecond, nil)
	c.RecordBuild(99, time.Millisecond, errors.New("boom"))
	c.RecordWalks(4, time.Millisecond, nil)
	c.RecordBatch("node2vec", 32, time.Millisecond, nil)
	c.RecordBatch("node2vec", 8, time.Millisecond, nil)
	c.RecordTransform("filter", time.Millisecond, nil)

	assert.InDelta(t, 10.0, promtest.ToFloat64(c.edges), 1e-9)
	assert.InDelta(t, 4.0, promtest.ToFloat64(c.walks), 1e-9)
	assert.InDelta(t, 40.0, promtest.ToFloat64(c.rows.WithLabelValues("node2vec")), 1e-9)

	// build/success, build/error, walks/success, node2vec/success, filter/success
	assert.Equal(t, 5, promtest.CollectAndCount(c.opLatency))
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	_, err = NewPrometheusCollector(reg)
	assert.Error(t, err)
}
