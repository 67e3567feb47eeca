package recompression

import (
	"fmt"
	"runtime"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/partition"
	"github.com/rs/zerolog"
)

// Option configures an Engine.
// This is a type alias for the generic Option interface specialized for Engine.
type Option = options.Option[*Engine]

// WithWorkers sets the number of goroutines used by every parallel phase.
// The default is runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return options.New(func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidWorkerCount, n)
		}
		e.workers = n

		return nil
	})
}

// WithStrategy sets the partition strategy used by pair compression.
// The default is partition.Greedy.
func WithStrategy(s partition.Strategy) Option {
	return options.New(func(e *Engine) error {
		if s == nil {
			return errs.ErrNilStrategy
		}
		e.strategy = s

		return nil
	})
}

// WithLogger sets the logger receiving one debug event per pass and one info event per run.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return options.NoError(func(e *Engine) {
		e.logger = l
	})
}

// WithInvariantChecks enables internal consistency assertions after every pass.
//
// A violated assertion panics. The checks cost an extra scan per pass and are meant
// for tests.
func WithInvariantChecks(enabled bool) Option {
	return options.NoError(func(e *Engine) {
		e.checks = enabled
	})
}

// WithLevelObserver registers fn to be called with the statistics of every pass,
// in order, on the goroutine running the recompression.
func WithLevelObserver(fn func(PassStats)) Option {
	return options.NoError(func(e *Engine) {
		e.observer = fn
	})
}

func defaultWorkers() int {
	return max(1, runtime.GOMAXPROCS(0))
}
