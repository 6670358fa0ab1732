package graphgo

import (
	"log/slog"
	"time"

	"github.com/hupe1980/graphgo/progress"
)

type options struct {
	metricsCollector  MetricsCollector
	logger            *Logger
	workers           int
	memoryLimit       int64
	maxConcurrentJobs int64
	progress          progress.Sink
	progressInterval  time.Duration
	verbose           bool
}

// Option configures an Engine.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for operational
// observability.
//
// Example with the built-in collector:
//
//	metrics := &graphgo.BasicMetricsCollector{}
//	eng := graphgo.New(graphgo.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := graphgo.NewJSONLogger(nil, slog.LevelInfo)
//	eng := graphgo.New(graphgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(nil, level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(nil, level)
	}
}

// WithWorkers sets the number of goroutines used inside a single operation.
// Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit bounds the memory of construction buffers, walks and
// batches of every operation. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxConcurrentJobs bounds how many heavy operations (builds, walk
// generations, batches, transformations) run at the same time. Defaults to 1.
func WithMaxConcurrentJobs(n int64) Option {
	return func(o *options) {
		o.maxConcurrentJobs = n
	}
}

// WithProgress reports the stages of long operations to sink.
func WithProgress(sink progress.Sink) Option {
	return func(o *options) {
		o.progress = sink
	}
}

// WithVerbose reports progress through the logger at the given interval when
// no progress sink is configured.
func WithVerbose(interval time.Duration) Option {
	return func(o *options) {
		o.verbose = true
		o.progressInterval = interval
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		maxConcurrentJobs: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.progress == nil && o.verbose {
		o.progress = progress.NewLogSink(o.logger.Logger, o.progressInterval)
	}
	return o
}
