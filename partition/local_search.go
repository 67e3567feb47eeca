package partition

import (
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/internal/parallel"
)

// LocalSearch starts from a random bipartition and improves it with flip rounds.
//
// In each round every symbol whose incident edges are mostly uncut switches class. The
// round is kept only if it increases the undirected cut; the search stops at the first
// round that does not, or after the configured number of rounds.
type LocalSearch struct {
	cfg *Config
}

var _ Strategy = (*LocalSearch)(nil)

// NewLocalSearch creates the local search strategy.
//
// Parameters:
//   - opts: WithRounds, WithSeed
func NewLocalSearch(opts ...Option) (*LocalSearch, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &LocalSearch{cfg: cfg}, nil
}

// Name implements Strategy.
func (*LocalSearch) Name() string {
	return NameLocalSearch
}

// Rounds returns the maximum number of flip rounds.
func (l *LocalSearch) Rounds() int {
	return l.cfg.rounds
}

// Compute implements Strategy.
func (l *LocalSearch) Compute(text []grammar.Symbol, workers int) *Partition {
	if len(text) == 0 {
		return New(0, 0)
	}

	adj := NewAdjacencyList(text, workers)
	p := span(text, workers)
	randomize(p, l.cfg.seedFor(text, p), 0, workers)

	cut := p.CutSize(adj, workers)
	for range l.cfg.rounds {
		next := flipRound(p, adj, workers)
		nextCut := next.CutSize(adj, workers)
		if nextCut <= cut {
			break
		}
		p, cut = next, nextCut
	}

	return finish(text, p, adj, workers, true)
}

// flipRound returns a copy of p in which every symbol with more uncut than cut incident
// edges has switched class.
func flipRound(p *Partition, adj AdjacencyList, workers int) *Partition {
	ranges := parallel.Ranges(workers, len(adj))
	local := make([][]int, len(ranges))
	parallel.Run(ranges, func(w int, r parallel.Range) {
		gain := make([]int, p.Span())
		for _, e := range adj[r.Start:r.End] {
			d := -1
			if p.Side(e.Hi) != p.Side(e.Lo) {
				d = 1
			}
			gain[e.Hi-p.Min] += d
			gain[e.Lo-p.Min] += d
		}
		local[w] = gain
	})

	next := &Partition{Min: p.Min, Max: p.Max, right: make([]bool, p.Span())}
	parallel.For(workers, p.Span(), func(_ int, r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			g := 0
			for _, gain := range local {
				g += gain[i]
			}
			next.right[i] = p.right[i] != (g < 0)
		}
	})

	return next
}
