package grammar

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/recomp/errs"
)

// HasBlockPrefix reports whether the block rules occupy the first Blocks entries of Rules.
func (g *Grammar) HasBlockPrefix() bool {
	for i, r := range g.Rules {
		if r.IsBlock() != (i < g.Blocks) {
			return false
		}
	}

	return true
}

// BlocksFirst returns a copy of g renamed so that all block rules form the prefix
// [Terminals, Terminals+Blocks) of the symbol space, followed by the pair rules.
//
// The relative order of block rules, and of pair rules, is preserved. The derived text
// is unchanged. Calling BlocksFirst on a grammar that already has a block prefix returns
// an equal copy.
func (g *Grammar) BlocksFirst() *Grammar {
	out := &Grammar{
		Terminals: g.Terminals,
		Blocks:    g.Blocks,
		Root:      g.Root,
		Rules:     make([]Rule, len(g.Rules)),
		Empty:     g.Empty,
	}

	renamed := make([]Symbol, len(g.Rules))
	nextBlock, nextPair := 0, g.Blocks
	for i, r := range g.Rules {
		if r.IsBlock() {
			renamed[i] = Symbol(g.Terminals + nextBlock) //nolint:gosec
			nextBlock++
		} else {
			renamed[i] = Symbol(g.Terminals + nextPair) //nolint:gosec
			nextPair++
		}
	}

	rename := func(sym Symbol) Symbol {
		if g.IsTerminal(sym) {
			return sym
		}

		return renamed[int(sym)-g.Terminals]
	}

	for i, r := range g.Rules {
		nr := r
		nr.First = rename(r.First)
		if !r.IsBlock() {
			nr.Second = rename(r.Second)
		}
		out.Rules[int(renamed[i])-g.Terminals] = nr
	}

	if !g.Empty {
		out.Root = rename(g.Root)
	}

	return out
}

// ComputeLengths recomputes the memoized length of every rule.
//
// It is used after rules were loaded without lengths (for example by a decoder). Rules may
// appear in any order as long as the derivation graph is acyclic.
//
// Returns:
//   - error: ErrInvalidRule for dangling references, bad run lengths or length overflow,
//     ErrCyclicGrammar if a rule derives itself
func (g *Grammar) ComputeLengths() error {
	lens, err := g.lengths()
	if err != nil {
		return err
	}

	for i := range g.Rules {
		g.Rules[i].Len = lens[i]
	}

	return nil
}

// Validate checks the structural invariants of g.
//
// It verifies that Blocks matches the number of block rules, that every reference is
// defined and no rule derives itself, that block runs are at least 2, that memoized
// lengths are consistent and that the root is defined unless the grammar is empty.
func (g *Grammar) Validate() error {
	if g.Terminals < 0 {
		return fmt.Errorf("%w: negative terminal count %d", errs.ErrInvalidRule, g.Terminals)
	}

	blocks := 0
	for _, r := range g.Rules {
		if r.IsBlock() {
			blocks++
		}
	}
	if blocks != g.Blocks {
		return fmt.Errorf("%w: %d block rules, header says %d", errs.ErrInvalidRule, blocks, g.Blocks)
	}

	if !g.Empty && !g.IsDefined(g.Root) {
		return fmt.Errorf("%w: %d", errs.ErrInvalidRoot, g.Root)
	}

	lens, err := g.lengths()
	if err != nil {
		return err
	}
	for i, r := range g.Rules {
		if r.Len != lens[i] {
			return fmt.Errorf("%w: rule %d has length %d, derives %d",
				errs.ErrInvalidRule, g.Terminals+i, r.Len, lens[i])
		}
	}

	return nil
}

const (
	unvisited uint8 = iota
	visiting
	visited
)

// lengths computes the derived length of every rule with an iterative post-order walk.
func (g *Grammar) lengths() ([]uint64, error) {
	n := len(g.Rules)
	lens := make([]uint64, n)
	state := make([]uint8, n)
	stack := make([]int, 0, 64)

	symLen := func(sym Symbol) uint64 {
		if g.IsTerminal(sym) {
			return 1
		}

		return lens[int(sym)-g.Terminals]
	}

	// push schedules sym for evaluation; reports false on a back edge.
	push := func(sym Symbol) bool {
		if g.IsTerminal(sym) {
			return true
		}
		idx := int(sym) - g.Terminals
		switch state[idx] {
		case visiting:
			return false
		case unvisited:
			stack = append(stack, idx)
		}

		return true
	}

	for i, r := range g.Rules {
		if !g.IsDefined(r.First) || (!r.IsBlock() && !g.IsDefined(r.Second)) {
			return nil, fmt.Errorf("%w: rule %d references undefined symbol", errs.ErrInvalidRule, g.Terminals+i)
		}
		if r.IsBlock() && r.Second < 2 {
			return nil, fmt.Errorf("%w: rule %d has run length %d", errs.ErrInvalidRule, g.Terminals+i, r.Second)
		}
	}

	for start := range g.Rules {
		if state[start] != unvisited {
			continue
		}
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			switch state[top] {
			case unvisited:
				state[top] = visiting
				r := g.Rules[top]
				ok := push(r.First)
				if !r.IsBlock() {
					ok = ok && push(r.Second)
				}
				if !ok {
					return nil, fmt.Errorf("%w: at rule %d", errs.ErrCyclicGrammar, g.Terminals+top)
				}
			case visiting:
				r := g.Rules[top]
				if r.IsBlock() {
					hi, lo := bits.Mul64(uint64(r.Second), symLen(r.First))
					if hi != 0 {
						return nil, fmt.Errorf("%w: rule %d length overflows", errs.ErrInvalidRule, g.Terminals+top)
					}
					lens[top] = lo
				} else {
					sum, carry := bits.Add64(symLen(r.First), symLen(r.Second), 0)
					if carry != 0 {
						return nil, fmt.Errorf("%w: rule %d length overflows", errs.ErrInvalidRule, g.Terminals+top)
					}
					lens[top] = sum
				}
				state[top] = visited
				stack = stack[:len(stack)-1]
			default:
				stack = stack[:len(stack)-1]
			}
		}
	}

	return lens, nil
}
