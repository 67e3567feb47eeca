package parallel

import "cmp"

// MinMax returns the smallest and largest element of s using a parallel reduction.
// It panics if s is empty.
func MinMax[T cmp.Ordered](s []T, workers int) (lo, hi T) {
	if len(s) == 0 {
		panic("parallel.MinMax: empty slice")
	}

	ranges := Ranges(workers, len(s))
	los := make([]T, len(ranges))
	his := make([]T, len(ranges))
	Run(ranges, func(w int, r Range) {
		l, h := s[r.Start], s[r.Start]
		for _, v := range s[r.Start+1 : r.End] {
			l = min(l, v)
			h = max(h, v)
		}
		los[w], his[w] = l, h
	})

	lo, hi = los[0], his[0]
	for w := 1; w < len(ranges); w++ {
		lo = min(lo, los[w])
		hi = max(hi, his[w])
	}

	return lo, hi
}

// Count returns, per range, the number of indices in the range for which pred is true,
// together with the exclusive prefix sum of those counts and the overall total.
func Count(ranges []Range, pred func(i int) bool) (offsets []int, total int) {
	offsets = make([]int, len(ranges))
	Run(ranges, func(w int, r Range) {
		c := 0
		for i := r.Start; i < r.End; i++ {
			if pred(i) {
				c++
			}
		}
		offsets[w] = c
	})

	return offsets, ExclusiveScan(offsets)
}
