package recompression

import (
	"cmp"
	"fmt"
	"math"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/arloliu/recomp/internal/sorter"
)

// blockRun is a maximal run of at least two equal symbols.
type blockRun struct {
	pos int
	len int
	sym grammar.Symbol
}

func compareRuns(a, b blockRun) int {
	if c := cmp.Compare(a.sym, b.sym); c != 0 {
		return c
	}

	return cmp.Compare(a.len, b.len)
}

// bcomp replaces every maximal run of length >= 2 by a block symbol.
//
// Equal (symbol, length) runs share one rule; rule ids are assigned in increasing
// (symbol, length) order starting at g.NextSymbol().
func (e *Engine) bcomp(seq *sequence, g *grammar.Grammar) (rules, occurrences int, err error) {
	text := seq.text
	n := len(text)
	ranges := parallel.Ranges(e.workers, n)

	// count: a run belongs to the range holding its first position
	local := make([][]blockRun, len(ranges))
	parallel.Run(ranges, func(w int, r parallel.Range) {
		var found []blockRun
		i := r.Start
		for i > 0 && i < r.End && text[i] == text[i-1] {
			i++
		}
		for i < r.End {
			j := i + 1
			for j < n && text[j] == text[i] {
				j++
			}
			if j-i >= 2 {
				found = append(found, blockRun{pos: i, len: j - i, sym: text[i]})
			}
			i = j
		}
		local[w] = found
	})

	runs := scatter(local, e.workers)
	if len(runs) == 0 {
		return 0, 0, nil
	}

	for _, run := range runs {
		if uint64(run.len) > math.MaxUint32 {
			return 0, 0, fmt.Errorf("%w: run of %d symbols at position %d", errs.ErrSymbolSpaceExhausted, run.len, run.pos)
		}
	}

	sorter.SortStable(runs, compareRuns, e.workers)

	keyRanges, firstIDs, distinct := distinctKeys(runs, e.workers, func(a, b blockRun) bool {
		return a.sym == b.sym && a.len == b.len
	})
	if err := g.Reserve(distinct); err != nil {
		return 0, 0, err
	}

	base := g.NextSymbol()
	batch := make([]grammar.Rule, distinct)
	parallel.Run(keyRanges, func(w int, r parallel.Range) {
		cur := firstIDs[w] - 1
		for i := r.Start; i < r.End; i++ {
			run := runs[i]
			if i == 0 || runs[i-1].sym != run.sym || runs[i-1].len != run.len {
				cur++
				batch[cur] = grammar.NewBlockRule(run.sym, uint32(run.len), g.Len(run.sym)) //nolint:gosec
			}
			text[run.pos] = base + grammar.Symbol(cur) //nolint:gosec
			for k := run.pos + 1; k < run.pos+run.len; k++ {
				seq.kept[k] = false
			}
		}
	})

	if err := g.AppendBlockRules(batch); err != nil {
		return 0, 0, err
	}
	seq.compact(e.workers)

	if e.checks {
		e.assertBlockFree(seq.text)
	}

	return distinct, len(runs), nil
}

// scatter concatenates the per-worker results into one slice: an exclusive prefix sum
// over the counts gives each worker its offset, and the copies run in parallel.
func scatter[T any](local [][]T, workers int) []T {
	offsets := make([]int, len(local))
	for w, l := range local {
		offsets[w] = len(l)
	}
	total := parallel.ExclusiveScan(offsets)
	if total == 0 {
		return nil
	}

	out := make([]T, total)
	parallel.For(min(workers, len(local)), len(local), func(_ int, r parallel.Range) {
		for w := r.Start; w < r.End; w++ {
			copy(out[offsets[w]:], local[w])
		}
	})

	return out
}

// distinctKeys splits the sorted slice s among the workers and computes, per chunk, the
// 0-based id of the first distinct key starting in it. It returns the chunks, the ids and
// the total number of distinct keys.
func distinctKeys[T any](s []T, workers int, equal func(a, b T) bool) ([]parallel.Range, []int, int) {
	ranges := parallel.Ranges(workers, len(s))
	firstIDs, total := parallel.Count(ranges, func(i int) bool {
		return i == 0 || !equal(s[i-1], s[i])
	})

	return ranges, firstIDs, total
}
