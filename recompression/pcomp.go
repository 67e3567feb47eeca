package recompression

import (
	"cmp"

	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/arloliu/recomp/internal/sorter"
	"github.com/arloliu/recomp/partition"
)

// pairOccurrence is an adjacent pair selected for replacement.
type pairOccurrence struct {
	pos   int
	left  grammar.Symbol
	right grammar.Symbol
}

func comparePairs(a, b pairOccurrence) int {
	if c := cmp.Compare(a.left, b.left); c != 0 {
		return c
	}

	return cmp.Compare(a.right, b.right)
}

// pcomp replaces every adjacent pair crossing the strategy's partition by a pair symbol.
//
// Equal (left, right) pairs share one rule; rule ids are assigned in increasing
// (left, right) order starting at g.NextSymbol().
func (e *Engine) pcomp(seq *sequence, g *grammar.Grammar) (p *partition.Partition, rules, occurrences int, err error) {
	text := seq.text
	p = e.strategy.Compute(text, e.workers)

	// count: position i is owned by the range containing i; the pair reads text[i+1]
	ranges := parallel.Ranges(e.workers, len(text)-1)
	local := make([][]pairOccurrence, len(ranges))
	parallel.Run(ranges, func(w int, r parallel.Range) {
		var found []pairOccurrence
		for i := r.Start; i < r.End; i++ {
			if p.Crosses(text[i], text[i+1]) {
				found = append(found, pairOccurrence{pos: i, left: text[i], right: text[i+1]})
			}
		}
		local[w] = found
	})

	pairs := scatter(local, e.workers)
	if len(pairs) == 0 {
		return p, 0, 0, nil
	}
	if e.checks {
		e.assertNonOverlapping(pairs)
	}

	sorter.SortStable(pairs, comparePairs, e.workers)

	keyRanges, firstIDs, distinct := distinctKeys(pairs, e.workers, func(a, b pairOccurrence) bool {
		return a.left == b.left && a.right == b.right
	})
	if err := g.Reserve(distinct); err != nil {
		return p, 0, 0, err
	}

	base := g.NextSymbol()
	batch := make([]grammar.Rule, distinct)
	parallel.Run(keyRanges, func(w int, r parallel.Range) {
		cur := firstIDs[w] - 1
		for i := r.Start; i < r.End; i++ {
			pr := pairs[i]
			if i == 0 || pairs[i-1].left != pr.left || pairs[i-1].right != pr.right {
				cur++
				batch[cur] = grammar.NewPairRule(pr.left, pr.right, g.Len(pr.left)+g.Len(pr.right))
			}
			text[pr.pos] = base + grammar.Symbol(cur) //nolint:gosec
			seq.kept[pr.pos+1] = false
		}
	})

	if err := g.AppendPairRules(batch); err != nil {
		return p, 0, 0, err
	}
	seq.compact(e.workers)

	return p, distinct, len(pairs), nil
}
