package grammar

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/arloliu/recomp/errs"
)

// Symbol is a terminal or non-terminal id.
type Symbol uint32

// MaxSymbol is the largest representable symbol id.
const MaxSymbol = math.MaxUint32

// RuleKind discriminates block rules from pair rules.
type RuleKind uint8

const (
	KindPair  RuleKind = 0x0 // KindPair is a rule X -> Y Z.
	KindBlock RuleKind = 0x1 // KindBlock is a rule X -> Y^d.
)

func (k RuleKind) String() string {
	switch k {
	case KindPair:
		return "Pair"
	case KindBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Rule is the production of a non-terminal.
//
// For a block rule First is the repeated symbol and Second the run length.
// For a pair rule First and Second are the left and right symbol.
type Rule struct {
	First  Symbol
	Second Symbol
	// Len is the length of the text derived by the rule.
	Len  uint64
	Kind RuleKind
}

// NewBlockRule creates the block rule sym^run, where childLen is the derived length of sym.
func NewBlockRule(sym Symbol, run uint32, childLen uint64) Rule {
	return Rule{First: sym, Second: Symbol(run), Len: uint64(run) * childLen, Kind: KindBlock}
}

// NewPairRule creates the pair rule left·right with the given derived length.
func NewPairRule(left, right Symbol, length uint64) Rule {
	return Rule{First: left, Second: right, Len: length, Kind: KindPair}
}

// IsBlock reports whether r is a block rule.
func (r Rule) IsBlock() bool {
	return r.Kind == KindBlock
}

// RunLength returns the repetition count of a block rule, or 0 for pair rules.
func (r Rule) RunLength() int {
	if r.Kind != KindBlock {
		return 0
	}

	return int(r.Second)
}

func (r Rule) String() string {
	if r.Kind == KindBlock {
		return fmt.Sprintf("%d^%d (len=%d)", r.First, r.Second, r.Len)
	}

	return fmt.Sprintf("%d·%d (len=%d)", r.First, r.Second, r.Len)
}

// Grammar is a run-length straight-line program.
//
// The zero-length text is represented with Empty set; Root is undefined in that case.
// A Grammar is append-only while it is being built and must not be modified
// concurrently with reads.
type Grammar struct {
	// Terminals is the size of the terminal alphabet; it is also the id of the first non-terminal.
	Terminals int
	// Blocks is the number of block rules in Rules. Rules are kept in creation order, so
	// block and pair rules of successive levels interleave and Rules[:Blocks] is not in
	// general the set of block rules; BlocksFirst returns the equivalent grammar in that
	// layout.
	Blocks int
	// Root is the start symbol. Undefined when Empty is set.
	Root Symbol
	// Rules holds the productions; symbol s >= Terminals is defined by Rules[s-Terminals].
	Rules []Rule
	// Empty marks the grammar of the empty text.
	Empty bool
}

// New creates an empty grammar over the given number of terminals.
func New(terminals int) *Grammar {
	return &Grammar{
		Terminals: terminals,
		Empty:     true,
	}
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.Rules)
}

// Pairs returns the number of pair rules.
func (g *Grammar) Pairs() int {
	return len(g.Rules) - g.Blocks
}

// NextSymbol returns the id the next appended rule will receive.
func (g *Grammar) NextSymbol() Symbol {
	return Symbol(g.Terminals + len(g.Rules)) //nolint:gosec
}

// IsTerminal reports whether sym is a terminal.
func (g *Grammar) IsTerminal(sym Symbol) bool {
	return uint64(sym) < uint64(g.Terminals)
}

// IsDefined reports whether sym is a terminal or refers to an existing rule.
func (g *Grammar) IsDefined(sym Symbol) bool {
	return uint64(sym) < uint64(g.Terminals)+uint64(len(g.Rules))
}

// IsBlock reports whether sym is a non-terminal defined by a block rule.
func (g *Grammar) IsBlock(sym Symbol) bool {
	r, ok := g.Rule(sym)
	return ok && r.Kind == KindBlock
}

// IsPair reports whether sym is a non-terminal defined by a pair rule.
func (g *Grammar) IsPair(sym Symbol) bool {
	r, ok := g.Rule(sym)
	return ok && r.Kind == KindPair
}

// Rule returns the rule defining sym. The boolean is false for terminals and unknown symbols.
func (g *Grammar) Rule(sym Symbol) (Rule, bool) {
	if g.IsTerminal(sym) || !g.IsDefined(sym) {
		return Rule{}, false
	}

	return g.Rules[int(sym)-g.Terminals], true
}

// Len returns the length of the text derived by sym in O(1).
//
// Terminals derive one symbol; undefined symbols report 0.
func (g *Grammar) Len(sym Symbol) uint64 {
	if g.IsTerminal(sym) {
		return 1
	}
	if !g.IsDefined(sym) {
		return 0
	}

	return g.Rules[int(sym)-g.Terminals].Len
}

// TextLen returns the length of the derived text.
func (g *Grammar) TextLen() uint64 {
	if g.Empty {
		return 0
	}

	return g.Len(g.Root)
}

// Reserve checks that n more rules fit in the symbol space.
func (g *Grammar) Reserve(n int) error {
	if uint64(g.Terminals)+uint64(len(g.Rules))+uint64(n) > uint64(MaxSymbol)+1 {
		return fmt.Errorf("%w: %d terminals, %d rules, %d requested",
			errs.ErrSymbolSpaceExhausted, g.Terminals, len(g.Rules), n)
	}

	return nil
}

// AppendBlockRules appends one pass worth of block rules.
//
// Every rule must be a block rule with a run length of at least 2 whose symbol is
// already defined, and whose memoized length matches the run times the symbol length.
// The batch is rejected as a whole on the first violation.
func (g *Grammar) AppendBlockRules(batch []Rule) error {
	if err := g.Reserve(len(batch)); err != nil {
		return err
	}

	for i, r := range batch {
		if r.Kind != KindBlock || r.Second < 2 || !g.IsDefined(r.First) {
			return fmt.Errorf("%w: block batch entry %d: %s", errs.ErrInvalidRule, i, r)
		}
		hi, lo := bits.Mul64(uint64(r.Second), g.Len(r.First))
		if hi != 0 || lo != r.Len {
			return fmt.Errorf("%w: block batch entry %d: length %d does not match", errs.ErrInvalidRule, i, r.Len)
		}
	}

	g.Rules = append(g.Rules, batch...)
	g.Blocks += len(batch)

	return nil
}

// AppendPairRules appends one pass worth of pair rules.
//
// Both symbols of every rule must already be defined, and the memoized length must be
// the sum of their lengths.
func (g *Grammar) AppendPairRules(batch []Rule) error {
	if err := g.Reserve(len(batch)); err != nil {
		return err
	}

	for i, r := range batch {
		if r.Kind != KindPair || !g.IsDefined(r.First) || !g.IsDefined(r.Second) {
			return fmt.Errorf("%w: pair batch entry %d: %s", errs.ErrInvalidRule, i, r)
		}
		if g.Len(r.First)+g.Len(r.Second) != r.Len {
			return fmt.Errorf("%w: pair batch entry %d: length %d does not match", errs.ErrInvalidRule, i, r.Len)
		}
	}

	g.Rules = append(g.Rules, batch...)

	return nil
}

// SetRoot sets the start symbol and marks the grammar non-empty.
func (g *Grammar) SetRoot(sym Symbol) error {
	if !g.IsDefined(sym) {
		return fmt.Errorf("%w: %d", errs.ErrInvalidRoot, sym)
	}
	g.Root = sym
	g.Empty = false

	return nil
}

// Clone returns a deep copy of g.
func (g *Grammar) Clone() *Grammar {
	c := *g
	c.Rules = append([]Rule(nil), g.Rules...)

	return &c
}

// Equal reports whether g and other describe the same rules, root and layout.
func (g *Grammar) Equal(other *Grammar) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.Terminals != other.Terminals || g.Blocks != other.Blocks || g.Empty != other.Empty {
		return false
	}
	if !g.Empty && g.Root != other.Root {
		return false
	}
	if len(g.Rules) != len(other.Rules) {
		return false
	}
	for i := range g.Rules {
		if g.Rules[i] != other.Rules[i] {
			return false
		}
	}

	return true
}
