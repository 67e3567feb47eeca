package recompression

import (
	"fmt"
	"slices"

	"github.com/arloliu/recomp/grammar"
)

// The assertions below run only with WithInvariantChecks(true). They panic because a
// failure means the engine itself is broken, not the input.

func (e *Engine) assertBlockFree(text []grammar.Symbol) {
	for i := 1; i < len(text); i++ {
		if text[i] == text[i-1] {
			panic(fmt.Sprintf("recompression: equal neighbours %d at position %d after block pass", text[i], i))
		}
	}
}

// assertNonOverlapping expects pairs in position order.
func (e *Engine) assertNonOverlapping(pairs []pairOccurrence) {
	for i := 1; i < len(pairs); i++ {
		if pairs[i].pos <= pairs[i-1].pos+1 {
			panic(fmt.Sprintf("recompression: overlapping pairs at positions %d and %d", pairs[i-1].pos, pairs[i].pos))
		}
	}
}

func (e *Engine) assertGrammar(g *grammar.Grammar, input []grammar.Symbol) {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("recompression: invalid grammar: %v", err))
	}
	text, err := g.DeriveText()
	if err != nil {
		panic(fmt.Sprintf("recompression: %v", err))
	}
	if !slices.Equal(text, input) {
		panic("recompression: grammar does not derive the input")
	}
}
