package community

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/graphgo/internal/errs"
)

// Defaults for Louvain.
const (
	DefaultRecursionMinimumImprovement  = 0.0
	DefaultFirstPhaseMinimumImprovement = 1e-5
	DefaultPatience                     = 5
)

var (
	// ErrInvalidImprovement is returned for a NaN or infinite improvement threshold.
	ErrInvalidImprovement = errs.New(errs.ErrConfiguration, "minimum improvement must be finite")

	// ErrInvalidPatience is returned for a patience below one.
	ErrInvalidPatience = errs.New(errs.ErrConfiguration, "patience must be positive")

	// ErrInvalidMembership is returned for a membership whose length differs
	// from the number of nodes.
	ErrInvalidMembership = errs.New(errs.ErrConfiguration, "membership does not match the graph")
)

type options struct {
	recursionMinimumImprovement  float64
	firstPhaseMinimumImprovement float64
	patience                     int
	logger                       *slog.Logger
	workers                      int
}

// Option configures Louvain.
type Option func(*options)

// WithRecursionMinimumImprovement sets the modularity gain a level must reach
// for the next level to be computed.
func WithRecursionMinimumImprovement(v float64) Option {
	return func(o *options) { o.recursionMinimumImprovement = v }
}

// WithFirstPhaseMinimumImprovement sets the modularity gain below which a
// local moving sweep counts against the patience.
func WithFirstPhaseMinimumImprovement(v float64) Option {
	return func(o *options) { o.firstPhaseMinimumImprovement = v }
}

// WithPatience sets how many consecutive sweeps below the first phase
// threshold end the local moving phase.
func WithPatience(n int) Option {
	return func(o *options) { o.patience = n }
}

// WithLogger sets the logger. Defaults to the graph's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers sets the number of goroutines. Defaults to the graph's setting.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func (o *options) validate() error {
	for name, v := range map[string]float64{
		"recursion_minimum_improvement":   o.recursionMinimumImprovement,
		"first_phase_minimum_improvement": o.firstPhaseMinimumImprovement,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidImprovement, name, v)
		}
	}
	if o.patience < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPatience, o.patience)
	}
	return nil
}
