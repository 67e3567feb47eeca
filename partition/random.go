package partition

import (
	"math/rand/v2"

	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/internal/parallel"
)

// randomBlock is the number of consecutive symbols drawn from one PRNG stream.
// Streams are keyed by (call seed, trial, block), so a seeded result does not depend on
// the worker count.
const randomBlock = 4096

// Random draws Trials uniform random bipartitions and keeps the one with the largest
// undirected cut. The smallest symbol is always Left and the largest always Right.
// Equal crossing counts are oriented towards the side creating fewer rules.
type Random struct {
	cfg *Config
}

var _ Strategy = (*Random)(nil)

// NewRandom creates the random strategy.
//
// Parameters:
//   - opts: WithTrials, WithSeed
//
// Returns:
//   - *Random: The strategy
//   - error: ErrInvalidTrials if the trial count is less than one
func NewRandom(opts ...Option) (*Random, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Random{cfg: cfg}, nil
}

// Name implements Strategy.
func (*Random) Name() string {
	return NameRandom
}

// Trials returns the configured number of trials.
func (r *Random) Trials() int {
	return r.cfg.trials
}

// Compute implements Strategy.
func (r *Random) Compute(text []grammar.Symbol, workers int) *Partition {
	if len(text) == 0 {
		return New(0, 0)
	}

	adj := NewAdjacencyList(text, workers)
	bounds := span(text, workers)
	seed := r.cfg.seedFor(text, bounds)

	var best *Partition
	bestCut := -1
	for trial := range r.cfg.trials {
		p := New(bounds.Min, bounds.Max)
		randomize(p, seed, uint64(trial), workers) //nolint:gosec
		if r.cfg.trials == 1 {
			best = p
			break
		}
		if cut := p.CutSize(adj, workers); cut > bestCut {
			best, bestCut = p, cut
		}
	}

	return finish(text, best, adj, workers, true)
}

// randomize assigns every symbol of p a uniform random class, then forces Min to Left
// and Max to Right.
func randomize(p *Partition, seed, stream uint64, workers int) {
	blocks := (p.Span() + randomBlock - 1) / randomBlock
	parallel.For(workers, blocks, func(_ int, r parallel.Range) {
		for b := r.Start; b < r.End; b++ {
			rng := rand.New(rand.NewPCG(seed, stream<<32|uint64(b))) //nolint:gosec
			end := min((b+1)*randomBlock, p.Span())
			for i := b * randomBlock; i < end; i++ {
				p.right[i] = rng.IntN(2) == 1
			}
		}
	})

	p.right[0] = false
	p.right[p.Span()-1] = p.Span() > 1
}
