package partition

import (
	"fmt"

	"github.com/arloliu/recomp/grammar"
)

// Class is the side of a symbol in a partition.
type Class uint8

const (
	Left  Class = 0x0
	Right Class = 0x1
)

func (c Class) String() string {
	if c == Right {
		return "Right"
	}

	return "Left"
}

// Direction names the crossing orientation that is compressed.
type Direction uint8

const (
	// LeftToRight compresses pairs (a, b) with a in Left and b in Right.
	LeftToRight Direction = 0x0
	// RightToLeft compresses pairs (a, b) with a in Right and b in Left.
	RightToLeft Direction = 0x1
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Partition assigns a Class to every symbol of the range [Min, Max].
//
// A Partition lives for one pair compression pass. Symbols outside the range are
// reported as Left.
type Partition struct {
	Min       grammar.Symbol
	Max       grammar.Symbol
	Direction Direction
	right     []bool
}

// New creates a partition over [lo, hi] with every symbol in Left.
func New(lo, hi grammar.Symbol) *Partition {
	if hi < lo {
		hi = lo
	}

	return &Partition{
		Min:   lo,
		Max:   hi,
		right: make([]bool, int(hi-lo)+1),
	}
}

// Span returns the number of symbols in the range.
func (p *Partition) Span() int {
	return len(p.right)
}

// Contains reports whether sym lies in [Min, Max].
func (p *Partition) Contains(sym grammar.Symbol) bool {
	return sym >= p.Min && sym <= p.Max
}

// Side returns the class of sym.
func (p *Partition) Side(sym grammar.Symbol) Class {
	if !p.Contains(sym) || !p.right[sym-p.Min] {
		return Left
	}

	return Right
}

// Set assigns sym to class c. Symbols outside the range are ignored.
func (p *Partition) Set(sym grammar.Symbol, c Class) {
	if p.Contains(sym) {
		p.right[sym-p.Min] = c == Right
	}
}

// First returns the class of the first symbol of a compressed pair.
func (p *Partition) First() Class {
	if p.Direction == RightToLeft {
		return Right
	}

	return Left
}

// Crosses reports whether the adjacent pair (a, b) is compressed under p.
func (p *Partition) Crosses(a, b grammar.Symbol) bool {
	first := p.First()
	return p.Side(a) == first && p.Side(b) != first
}

// Count returns the number of symbols of the range in each class.
func (p *Partition) Count() (left, right int) {
	for _, r := range p.right {
		if r {
			right++
		}
	}

	return len(p.right) - right, right
}

func (p *Partition) String() string {
	left, right := p.Count()
	return fmt.Sprintf("partition[%d..%d] left=%d right=%d direction=%s", p.Min, p.Max, left, right, p.Direction)
}
