// Package sorter implements a stable parallel merge sort.
package sorter

import (
	"slices"

	"github.com/arloliu/recomp/internal/parallel"
)

// minChunk is the smallest chunk worth sorting on its own goroutine.
const minChunk = 2048

// SortStable sorts s in place by cmp, keeping equal elements in their original order.
//
// The slice is cut into one chunk per worker; chunks are sorted concurrently with
// slices.SortStableFunc and then merged pairwise in rounds, each round merging
// neighbouring runs in parallel. On ties the element of the left run is taken first,
// so stability holds across chunk boundaries.
//
// Parameters:
//   - s: Slice to sort
//   - cmp: Three-way comparison, negative when a sorts before b
//   - workers: Maximum number of concurrent goroutines
func SortStable[T any](s []T, cmp func(a, b T) int, workers int) {
	if workers <= 1 || len(s) < 2*minChunk {
		slices.SortStableFunc(s, cmp)
		return
	}

	chunks := min(workers, len(s)/minChunk)
	runs := parallel.Ranges(chunks, len(s))
	parallel.Run(runs, func(_ int, r parallel.Range) {
		slices.SortStableFunc(s[r.Start:r.End], cmp)
	})

	src := s
	dst := make([]T, len(s))
	for len(runs) > 1 {
		merged := make([]parallel.Range, 0, (len(runs)+1)/2)
		for i := 0; i < len(runs); i += 2 {
			if i+1 < len(runs) {
				merged = append(merged, parallel.Range{Start: runs[i].Start, End: runs[i+1].End})
			} else {
				merged = append(merged, runs[i])
			}
		}

		parallel.Run(merged, func(w int, m parallel.Range) {
			left := runs[2*w]
			if 2*w+1 >= len(runs) {
				copy(dst[m.Start:m.End], src[m.Start:m.End])
				return
			}
			right := runs[2*w+1]
			merge(dst[m.Start:m.End], src[left.Start:left.End], src[right.Start:right.End], cmp)
		})

		src, dst = dst, src
		runs = merged
	}

	if &src[0] != &s[0] {
		copy(s, src)
	}
}

// merge writes the stable merge of a and b into out; len(out) == len(a)+len(b).
func merge[T any](out, a, b []T, cmp func(a, b T) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			out[k] = b[j]
			j++
		} else {
			out[k] = a[i]
			i++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
