package recompression

import (
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/arloliu/recomp/internal/pool"
)

// sequence is the working text of a run.
//
// Passes rewrite the first position of every replaced occurrence in place and clear the
// kept flag of the other positions; compact then removes the cleared positions. The
// buffers come from the scratch pools and are sized for the input once per run.
type sequence struct {
	text     []grammar.Symbol
	spare    []grammar.Symbol
	kept     []bool
	releases []func()
}

func newSequence(input []grammar.Symbol, workers int) *sequence {
	text, releaseText := pool.GetSymbolSlice(len(input))
	spare, releaseSpare := pool.GetSymbolSlice(len(input))
	kept, releaseKept := pool.GetBoolSlice(len(input), true)

	parallel.For(workers, len(input), func(_ int, r parallel.Range) {
		copy(text[r.Start:r.End], input[r.Start:r.End])
	})

	return &sequence{
		text:     text,
		spare:    spare,
		kept:     kept,
		releases: []func(){releaseText, releaseSpare, releaseKept},
	}
}

// Len returns the current length.
func (s *sequence) Len() int {
	return len(s.text)
}

// release returns the buffers to the pools; s must not be used afterwards.
func (s *sequence) release() {
	for _, fn := range s.releases {
		fn()
	}
	s.text, s.spare, s.kept, s.releases = nil, nil, nil, nil
}

// compact removes the positions whose kept flag is cleared, preserving the order of the
// others, and resets the flags for the next pass. It returns the new length.
func (s *sequence) compact(workers int) int {
	n := len(s.text)
	ranges := parallel.Ranges(workers, n)
	offsets, total := parallel.Count(ranges, func(i int) bool { return s.kept[i] })

	dst := s.spare[:total]
	parallel.Run(ranges, func(w int, r parallel.Range) {
		out := offsets[w]
		for i := r.Start; i < r.End; i++ {
			if s.kept[i] {
				dst[out] = s.text[i]
				out++
			}
			s.kept[i] = true
		}
	})

	s.spare = s.text[:cap(s.text)]
	s.text = dst

	return total
}
