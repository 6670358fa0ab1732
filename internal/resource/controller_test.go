package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/internal/errs"
)

func TestController_Reserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.Equal(t, int64(100), c.MemoryLimit())

	releaseA, err := c.Reserve("edges", 50)
	require.NoError(t, err)
	releaseB, err := c.Reserve("weights", 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	_, err = c.Reserve("walks", 20)
	require.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Contains(t, err.Error(), "walks")
	assert.Equal(t, int64(90), c.MemoryUsage())

	releaseA()
	assert.Equal(t, int64(40), c.MemoryUsage())

	releaseC, err := c.Reserve("walks", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())

	releaseB()
	releaseC()
	assert.Zero(t, c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})

	release, err := c.Reserve("edges", 1<<40)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	release()
	assert.Zero(t, c.MemoryUsage())

	release, err = c.Reserve("nothing", 0)
	require.NoError(t, err)
	release()
	assert.Equal(t, int64(1<<40), c.PeakMemoryUsage())
}

func TestController_Jobs(t *testing.T) {
	c := NewController(Config{MaxConcurrentJobs: 2, Workers: 3})
	assert.Equal(t, 3, c.Workers())

	release1, err := c.Job(t.Context())
	require.NoError(t, err)
	_, err = c.Job(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Job(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release1()

	release3, err := c.Job(t.Context())
	require.NoError(t, err)
	release3()
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	release, err := c.Reserve("edges", 10)
	require.NoError(t, err)
	release()

	release, err = c.Job(t.Context())
	require.NoError(t, err)
	release()

	assert.Positive(t, c.Workers())
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
}
