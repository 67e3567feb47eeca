package partition

import (
	"cmp"

	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/arloliu/recomp/internal/sorter"
)

// Edge is one adjacent pair of the text, stored with its larger symbol first.
//
// Forward is true when the pair occurs in the text as (Hi, Lo) and false when it occurs
// as (Lo, Hi).
type Edge struct {
	Hi      grammar.Symbol
	Lo      grammar.Symbol
	Forward bool
}

// Pair returns the symbols of e in text order.
func (e Edge) Pair() (first, second grammar.Symbol) {
	if e.Forward {
		return e.Hi, e.Lo
	}

	return e.Lo, e.Hi
}

func compareEdges(a, b Edge) int {
	if c := cmp.Compare(a.Hi, b.Hi); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Lo, b.Lo); c != 0 {
		return c
	}
	switch {
	case a.Forward == b.Forward:
		return 0
	case b.Forward:
		return -1
	default:
		return 1
	}
}

// AdjacencyList is the multiset of adjacent pairs of a text sorted by (Hi, Lo, Forward).
//
// Equal ordered pairs are consecutive, and all neighbours of a symbol that are smaller
// than it directly follow each other.
type AdjacencyList []Edge

// NewAdjacencyList builds the sorted adjacency list of text using up to workers goroutines.
func NewAdjacencyList(text []grammar.Symbol, workers int) AdjacencyList {
	if len(text) < 2 {
		return nil
	}

	adj := make(AdjacencyList, len(text)-1)
	parallel.For(workers, len(adj), func(_ int, r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			a, b := text[i], text[i+1]
			if a > b {
				adj[i] = Edge{Hi: a, Lo: b, Forward: true}
			} else {
				adj[i] = Edge{Hi: b, Lo: a}
			}
		}
	})
	sorter.SortStable(adj, compareEdges, workers)

	return adj
}

// CutStats counts the crossing pairs of a partition per orientation.
type CutStats struct {
	// LR counts occurrences of pairs (a, b) with a in Left and b in Right.
	LR int
	// RL counts occurrences of pairs (a, b) with a in Right and b in Left.
	RL int
	// DistinctLR and DistinctRL count distinct ordered pairs, i.e. the number of rules
	// compressing that orientation would create.
	DistinctLR int
	DistinctRL int
}

// Undirected returns the number of edges whose endpoints lie in different classes.
func (s CutStats) Undirected() int {
	return s.LR + s.RL
}

// DirectedCut counts the crossing pairs of p in both orientations.
func DirectedCut(adj AdjacencyList, p *Partition, workers int) CutStats {
	ranges := parallel.Ranges(workers, len(adj))
	partial := make([]CutStats, len(ranges))

	parallel.Run(ranges, func(w int, r parallel.Range) {
		var s CutStats
		for i := r.Start; i < r.End; i++ {
			first, second := adj[i].Pair()
			a, b := p.Side(first), p.Side(second)
			if a == b {
				continue
			}
			distinct := i == 0 || adj[i-1] != adj[i]
			if a == Left {
				s.LR++
				if distinct {
					s.DistinctLR++
				}
			} else {
				s.RL++
				if distinct {
					s.DistinctRL++
				}
			}
		}
		partial[w] = s
	})

	var total CutStats
	for _, s := range partial {
		total.LR += s.LR
		total.RL += s.RL
		total.DistinctLR += s.DistinctLR
		total.DistinctRL += s.DistinctRL
	}

	return total
}

// CutSize returns the undirected cut of p in adj.
func (p *Partition) CutSize(adj AdjacencyList, workers int) int {
	_, total := parallel.Count(parallel.Ranges(workers, len(adj)), func(i int) bool {
		return p.Side(adj[i].Hi) != p.Side(adj[i].Lo)
	})

	return total
}
