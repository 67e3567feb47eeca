package partition

import "github.com/arloliu/recomp/grammar"

// Greedy is the sequential greedy undirected max-cut heuristic.
//
// Symbols are visited in increasing order. Each symbol joins the class opposite to the
// majority of its already placed smaller neighbours (ties join Left), which cuts at least
// half of the edges. The direction is then the more frequent crossing orientation, with
// ties going to LeftToRight.
type Greedy struct{}

var _ Strategy = (*Greedy)(nil)

// NewGreedy creates the greedy strategy.
func NewGreedy() *Greedy {
	return &Greedy{}
}

// Name implements Strategy.
func (*Greedy) Name() string {
	return NameGreedy
}

// Compute implements Strategy.
func (*Greedy) Compute(text []grammar.Symbol, workers int) *Partition {
	if len(text) == 0 {
		return New(0, 0)
	}

	p := span(text, workers)
	adj := NewAdjacencyList(text, workers)
	if len(adj) == 0 {
		return p
	}

	val := adj[0].Hi
	lCount, rCount := 0, 0
	for _, e := range adj {
		if e.Hi > val {
			p.Set(val, majorityOpposite(lCount, rCount))
			lCount, rCount = 0, 0
			val = e.Hi
		}
		if p.Side(e.Lo) == Right {
			rCount++
		} else {
			lCount++
		}
	}
	p.Set(val, majorityOpposite(lCount, rCount))

	return finish(text, p, adj, workers, false)
}

func majorityOpposite(lCount, rCount int) Class {
	if lCount > rCount {
		return Right
	}

	return Left
}
