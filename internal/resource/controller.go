package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/graphgo/internal/errs"
)

// ErrMemoryLimitExceeded is returned when a reservation would exceed the
// configured memory limit.
var ErrMemoryLimitExceeded = errs.New(errs.ErrConfiguration, "memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for construction and batch buffers.
	// If 0, reservations are only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentJobs bounds how many heavy jobs (graph builds, walk
	// generations, batch assemblies) run at the same time.
	// If 0, defaults to 1.
	MaxConcurrentJobs int64

	// Workers is the fork-join pool size used inside a single job.
	// If 0, defaults to GOMAXPROCS.
	Workers int
}

// Controller bounds the memory and the concurrency of graph jobs.
type Controller struct {
	cfg Config

	mem  *semaphore.Weighted // nil if unlimited
	used atomic.Int64
	peak atomic.Int64

	jobs *semaphore.Weighted
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	c := &Controller{
		cfg:  cfg,
		jobs: semaphore.NewWeighted(cfg.MaxConcurrentJobs),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.mem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	return c
}

// Reserve accounts bytes for purpose and returns the matching release
// function. It never blocks: when the limit would be exceeded it fails with
// ErrMemoryLimitExceeded and the caller aborts before allocating.
// The release function is always non-nil and safe to call once.
func (c *Controller) Reserve(purpose string, bytes int64) (func(), error) {
	if c == nil || bytes <= 0 {
		return func() {}, nil
	}
	if c.mem != nil && !c.mem.TryAcquire(bytes) {
		return func() {}, fmt.Errorf("%w: %s needs %d bytes, %d of %d in use",
			ErrMemoryLimitExceeded, purpose, bytes, c.used.Load(), c.cfg.MemoryLimitBytes)
	}

	used := c.used.Add(bytes)
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			break
		}
	}

	return func() {
		if c.mem != nil {
			c.mem.Release(bytes)
		}
		c.used.Add(-bytes)
	}, nil
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// PeakMemoryUsage returns the largest number of bytes reserved at once.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// Workers returns the fork-join pool size.
func (c *Controller) Workers() int {
	if c == nil {
		return runtime.GOMAXPROCS(0)
	}
	return c.cfg.Workers
}

// Job blocks until a job slot is free and returns its release function.
func (c *Controller) Job(ctx context.Context) (func(), error) {
	if c == nil {
		return func() {}, nil
	}
	if err := c.jobs.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.jobs.Release(1) }, nil
}
