// Package progress reports the advancement of long-running stages (edge
// loading, sorting, walk generation) to an external progress sink.
//
// Progress is informational only: sinks never influence control flow.
package progress

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Sink receives progress updates. Add may be called concurrently.
type Sink interface {
	// Start begins a new stage with an expected total (0 if unknown).
	Start(stage string, total uint64)
	// Add records n completed units of the current stage.
	Add(n uint64)
	// Finish ends the current stage.
	Finish()
}

// Noop discards all updates.
type Noop struct{}

func (Noop) Start(string, uint64) {}
func (Noop) Add(uint64)           {}
func (Noop) Finish()              {}

// OrNoop returns s, or Noop if s is nil.
func OrNoop(s Sink) Sink {
	if s == nil {
		return Noop{}
	}
	return s
}

// LogSink writes progress lines to a slog.Logger at most once per interval.
type LogSink struct {
	logger *slog.Logger
	every  time.Duration

	mu        sync.Mutex
	stage     string
	total     uint64
	started   time.Time
	sometimes *rate.Sometimes

	done atomic.Uint64
}

// NewLogSink creates a LogSink. A non-positive interval defaults to one second.
func NewLogSink(logger *slog.Logger, interval time.Duration) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &LogSink{
		logger:    logger,
		every:     interval,
		sometimes: &rate.Sometimes{Interval: interval},
	}
}

// Start implements Sink.
func (s *LogSink) Start(stage string, total uint64) {
	s.mu.Lock()
	s.stage = stage
	s.total = total
	s.started = time.Now()
	s.sometimes = &rate.Sometimes{Interval: s.every}
	s.mu.Unlock()

	s.done.Store(0)
	s.logger.Info("stage started", "stage", stage, "total", total)
}

// Add implements Sink.
func (s *LogSink) Add(n uint64) {
	done := s.done.Add(n)

	s.mu.Lock()
	stage, total, sometimes := s.stage, s.total, s.sometimes
	s.mu.Unlock()

	sometimes.Do(func() {
		s.logger.Info("stage progress", "stage", stage, "done", done, "total", total)
	})
}

// Finish implements Sink.
func (s *LogSink) Finish() {
	s.mu.Lock()
	stage, started := s.stage, s.started
	s.mu.Unlock()

	s.logger.Info("stage finished", "stage", stage, "done", s.done.Load(), "elapsed", time.Since(started))
}

// Done returns the units completed in the current stage.
func (s *LogSink) Done() uint64 {
	return s.done.Load()
}
