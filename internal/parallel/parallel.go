// Package parallel provides the fork-join primitives used by recompression: static range
// partitioning, a barrier-synchronized parallel loop and the exclusive prefix sum that
// turns per-worker counts into scatter offsets.
package parallel

import "sync"

// Range is the half-open interval [Start, End) assigned to one worker.
type Range struct {
	Start int
	End   int
}

// Len returns the number of elements in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Ranges splits [0, n) into at most workers contiguous ranges of near-equal size.
//
// The first n%workers ranges receive one extra element. Empty ranges are never returned,
// so len(result) == min(workers, n). Ranges are computed up front; workers never
// discover their bounds at run time.
func Ranges(workers, n int) []Range {
	if workers < 1 {
		workers = 1
	}
	if n <= 0 {
		return nil
	}
	workers = min(workers, n)

	out := make([]Range, workers)
	base, extra := n/workers, n%workers
	start := 0
	for w := range out {
		size := base
		if w < extra {
			size++
		}
		out[w] = Range{Start: start, End: start + size}
		start += size
	}

	return out
}

// Run calls fn once per range, concurrently, and returns when every call has finished.
// A single range runs on the calling goroutine.
func Run(ranges []Range, fn func(worker int, r Range)) {
	if len(ranges) == 1 {
		fn(0, ranges[0])
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for w, r := range ranges {
		go func() {
			defer wg.Done()
			fn(w, r)
		}()
	}
	wg.Wait()
}

// For splits [0, n) with Ranges and runs fn over the ranges with Run.
// It returns the ranges so that later phases can reuse the same partitioning.
func For(workers, n int, fn func(worker int, r Range)) []Range {
	ranges := Ranges(workers, n)
	Run(ranges, fn)

	return ranges
}

// ExclusiveScan replaces counts with their exclusive prefix sums and returns the total.
//
// After the call counts[i] holds the sum of the original counts[0:i].
func ExclusiveScan(counts []int) int {
	sum := 0
	for i, c := range counts {
		counts[i] = sum
		sum += c
	}

	return sum
}
