package partition

import (
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/parallel"
)

// WeightedRandom balances symbol frequencies between the classes.
//
// The alphabet range is split among the workers; within its range each worker visits the
// symbols in increasing order and puts each one into the class with the smaller
// accumulated frequency. The smallest symbol is forced Left and the largest Right.
type WeightedRandom struct{}

var _ Strategy = (*WeightedRandom)(nil)

// NewWeightedRandom creates the frequency-balancing strategy.
func NewWeightedRandom() *WeightedRandom {
	return &WeightedRandom{}
}

// Name implements Strategy.
func (*WeightedRandom) Name() string {
	return NameWeightedRandom
}

// Compute implements Strategy.
func (*WeightedRandom) Compute(text []grammar.Symbol, workers int) *Partition {
	if len(text) == 0 {
		return New(0, 0)
	}

	p := span(text, workers)
	hist := histogram(text, p, workers)

	parallel.For(workers, p.Span(), func(_ int, r parallel.Range) {
		sumL, sumR := 0, 0
		for i := r.Start; i < r.End; i++ {
			if sumR < sumL {
				p.right[i] = true
				sumR += hist[i]
			} else {
				p.right[i] = false
				sumL += hist[i]
			}
		}
	})
	p.right[0] = false
	p.right[p.Span()-1] = p.Span() > 1

	adj := NewAdjacencyList(text, workers)

	return finish(text, p, adj, workers, true)
}

// histogram counts the occurrences of every symbol of p's range in text.
func histogram(text []grammar.Symbol, p *Partition, workers int) []int {
	ranges := parallel.Ranges(workers, len(text))
	local := make([][]int, len(ranges))
	parallel.Run(ranges, func(w int, r parallel.Range) {
		h := make([]int, p.Span())
		for _, sym := range text[r.Start:r.End] {
			h[sym-p.Min]++
		}
		local[w] = h
	})

	hist := local[0]
	parallel.For(workers, p.Span(), func(_ int, r parallel.Range) {
		for _, h := range local[1:] {
			for i := r.Start; i < r.End; i++ {
				hist[i] += h[i]
			}
		}
	})

	return hist
}
