package grammar

import (
	"fmt"
	"strings"
)

// Stats summarizes the shape of a grammar.
type Stats struct {
	Terminals int
	Rules     int
	Blocks    int
	Pairs     int
	TextLen   uint64
	// Depth is the height of the derivation tree of the root; 0 for a terminal root or
	// an empty grammar.
	Depth int
}

// Stats returns a summary of g.
func (g *Grammar) Stats() Stats {
	return Stats{
		Terminals: g.Terminals,
		Rules:     len(g.Rules),
		Blocks:    g.Blocks,
		Pairs:     g.Pairs(),
		TextLen:   g.TextLen(),
		Depth:     g.depth(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("terminals=%d rules=%d blocks=%d pairs=%d text_len=%d depth=%d",
		s.Terminals, s.Rules, s.Blocks, s.Pairs, s.TextLen, s.Depth)
}

// depth assumes an acyclic grammar.
func (g *Grammar) depth() int {
	if g.Empty || !g.IsDefined(g.Root) {
		return 0
	}

	memo := make([]int, len(g.Rules))
	for i := range memo {
		memo[i] = -1
	}

	var walk func(sym Symbol) int
	walk = func(sym Symbol) int {
		if g.IsTerminal(sym) {
			return 0
		}
		idx := int(sym) - g.Terminals
		if memo[idx] >= 0 {
			return memo[idx]
		}

		r := g.Rules[idx]
		d := walk(r.First)
		if !r.IsBlock() {
			d = max(d, walk(r.Second))
		}
		memo[idx] = d + 1

		return memo[idx]
	}

	return walk(g.Root)
}

// String lists the rules one per line followed by the root.
func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RLSLP terminals=%d rules=%d blocks=%d\n", g.Terminals, len(g.Rules), g.Blocks)
	for i, r := range g.Rules {
		fmt.Fprintf(&sb, "  %d -> %s\n", g.Terminals+i, r)
	}
	if g.Empty {
		sb.WriteString("  root: <empty>\n")
	} else {
		fmt.Fprintf(&sb, "  root: %d\n", g.Root)
	}

	return sb.String()
}
