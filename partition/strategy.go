package partition

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/cespare/xxhash/v2"
)

// Strategy computes the partition used by one pair compression pass.
//
// Implementations must be safe for concurrent use by independent recompression runs.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// Compute partitions the symbols of text using up to workers goroutines.
	// The returned partition covers [min(text), max(text)].
	Compute(text []grammar.Symbol, workers int) *Partition
}

// Strategy names accepted by ByName.
const (
	NameGreedy         = "greedy"
	NameRandom         = "random"
	NameWeightedRandom = "weighted"
	NameLocalSearch    = "local-search"
)

const (
	defaultTrials = 1
	defaultRounds = 4
)

// Config holds the tunables of the randomized strategies.
type Config struct {
	trials int
	rounds int
	seed   uint64
	seeded bool
}

func newConfig() *Config {
	return &Config{trials: defaultTrials, rounds: defaultRounds}
}

// Option configures a randomized strategy.
type Option = options.Option[*Config]

// WithTrials sets the number of independent random bipartitions Random draws.
func WithTrials(k int) Option {
	return options.New(func(c *Config) error {
		if k < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidTrials, k)
		}
		c.trials = k

		return nil
	})
}

// WithRounds sets the maximum number of flip rounds of LocalSearch.
func WithRounds(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative round count %d", errs.ErrInvalidConfigValues, n)
		}
		c.rounds = n

		return nil
	})
}

// WithSeed makes the randomized strategies deterministic.
//
// Without a seed every Compute call draws fresh randomness. With a seed the draw of a
// Compute call depends on the seed, the text length and the alphabet range.
func WithSeed(seed uint64) Option {
	return options.NoError(func(c *Config) {
		c.seed = seed
		c.seeded = true
	})
}

// seedFor returns the seed of one Compute call on text, whose alphabet range is p.
//
// A fixed seed is hashed together with len(text), p.Min and p.Max. The sequence of one
// run shrinks at every level, so each level draws an independent bipartition while the
// run as a whole stays reproducible.
func (c *Config) seedFor(text []grammar.Symbol, p *Partition) uint64 {
	if !c.seeded {
		return rand.Uint64() //nolint:gosec
	}

	var key [24]byte
	binary.LittleEndian.PutUint64(key[0:], c.seed)
	binary.LittleEndian.PutUint64(key[8:], uint64(len(text)))
	binary.LittleEndian.PutUint64(key[16:], uint64(p.Min)<<32|uint64(p.Max))

	return xxhash.Sum64(key[:])
}

// ByName returns the strategy registered under name.
//
// Options are applied to the randomized strategies and validated for all of them.
func ByName(name string, opts ...Option) (Strategy, error) {
	switch name {
	case NameGreedy:
		if err := options.Apply(newConfig(), opts...); err != nil {
			return nil, err
		}

		return NewGreedy(), nil
	case NameRandom:
		return NewRandom(opts...)
	case NameWeightedRandom:
		if err := options.Apply(newConfig(), opts...); err != nil {
			return nil, err
		}

		return NewWeightedRandom(), nil
	case NameLocalSearch:
		return NewLocalSearch(opts...)
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", errs.ErrUnknownStrategy, name, Names())
	}
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := []string{NameGreedy, NameRandom, NameWeightedRandom, NameLocalSearch}
	sort.Strings(names)

	return names
}

// span returns the alphabet range of text; text must not be empty.
func span(text []grammar.Symbol, workers int) *Partition {
	lo, hi := parallel.MinMax(text, workers)
	return New(lo, hi)
}

// orient sets the direction from the directed cut of p. With tieBreak set, equal
// crossing counts are decided in favor of the orientation that creates fewer rules.
func orient(p *Partition, adj AdjacencyList, workers int, tieBreak bool) CutStats {
	s := DirectedCut(adj, p, workers)
	p.Direction = LeftToRight
	if s.RL > s.LR || (tieBreak && s.RL == s.LR && s.DistinctRL < s.DistinctLR) {
		p.Direction = RightToLeft
	}

	return s
}

// ensureNonDegenerate puts text[0] in Left and the first symbol different from it in
// Right when all symbols of text share one class. It reports whether p was changed.
func ensureNonDegenerate(text []grammar.Symbol, p *Partition, workers int) bool {
	if len(text) == 0 {
		return false
	}

	side := p.Side(text[0])
	_, mixed := parallel.Count(parallel.Ranges(workers, len(text)), func(i int) bool {
		return p.Side(text[i]) != side
	})
	if mixed > 0 {
		return false
	}

	for _, sym := range text[1:] {
		if sym != text[0] {
			p.Set(text[0], Left)
			p.Set(sym, Right)

			return true
		}
	}

	return false
}

// finish applies the non-degeneracy guard and orients p.
func finish(text []grammar.Symbol, p *Partition, adj AdjacencyList, workers int, tieBreak bool) *Partition {
	ensureNonDegenerate(text, p, workers)
	orient(p, adj, workers, tieBreak)

	return p
}
