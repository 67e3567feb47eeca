package recompression

import (
	"time"

	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/partition"
	"github.com/rs/zerolog"
)

// Pass identifies the compression step of a level.
type Pass uint8

const (
	PassBlock Pass = 0x1 // PassBlock replaces maximal runs.
	PassPair  Pass = 0x2 // PassPair replaces crossing pairs.
)

func (p Pass) String() string {
	switch p {
	case PassBlock:
		return "bcomp"
	case PassPair:
		return "pcomp"
	default:
		return "unknown"
	}
}

// PassStats describes one compression pass.
type PassStats struct {
	// Level is the 1-based level; each level runs a block pass and possibly a pair pass.
	Level int
	Pass  Pass
	// InputLen and OutputLen are the sequence lengths before and after the pass.
	InputLen  int
	OutputLen int
	// Rules is the number of rules the pass created.
	Rules int
	// Occurrences is the number of replaced runs or pairs.
	Occurrences int
	// AlphabetMin and AlphabetMax bound the symbols of the input sequence.
	AlphabetMin grammar.Symbol
	AlphabetMax grammar.Symbol
	// Direction is the compressed orientation; meaningful for pair passes only.
	Direction partition.Direction
	Duration  time.Duration
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (s PassStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("level", s.Level).
		Stringer("pass", s.Pass).
		Int("input_len", s.InputLen).
		Int("output_len", s.OutputLen).
		Int("rules", s.Rules).
		Int("occurrences", s.Occurrences).
		Uint32("alphabet_min", uint32(s.AlphabetMin)).
		Uint32("alphabet_max", uint32(s.AlphabetMax)).
		Dur("duration", s.Duration)
	if s.Pass == PassPair {
		e.Stringer("direction", s.Direction)
	}
}

// Levels returns the number of levels covered by passes.
func Levels(passes []PassStats) int {
	if len(passes) == 0 {
		return 0
	}

	return passes[len(passes)-1].Level
}
