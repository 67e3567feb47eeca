package grammar

import (
	"fmt"

	"github.com/arloliu/recomp/errs"
)

// MaxTextLen is the longest text DeriveText and DeriveBytes expand.
//
// A grammar of a few rules can derive up to 2^64 symbols; longer texts are only
// reachable through Extract and At.
const MaxTextLen = 1 << 40

// DeriveText expands the grammar into the text it derives.
//
// Block rules are expanded once and then copied, so the cost is linear in the output
// length.
//
// Returns:
//   - []Symbol: The derived text (nil for the empty grammar)
//   - error: ErrTextTooLarge if TextLen exceeds MaxTextLen
func (g *Grammar) DeriveText() ([]Symbol, error) {
	return g.DeriveTextLimit(MaxTextLen)
}

// DeriveTextLimit is like DeriveText but rejects texts longer than limit symbols.
// A limit above MaxTextLen is lowered to MaxTextLen.
func (g *Grammar) DeriveTextLimit(limit uint64) ([]Symbol, error) {
	if g.Empty {
		return nil, nil
	}

	n := g.TextLen()
	if n > min(limit, MaxTextLen) {
		return nil, fmt.Errorf("%w: %d symbols, limit %d", errs.ErrTextTooLarge, n, min(limit, MaxTextLen))
	}

	out := make([]Symbol, 0, n)

	return g.appendDerived(out, g.Root), nil
}

// DeriveBytes expands a grammar over a byte alphabet into its text.
//
// Returns:
//   - []byte: The derived text (nil for the empty grammar)
//   - error: ErrNonByteAlphabet if the grammar has more than 256 terminals,
//     ErrTextTooLarge if TextLen exceeds MaxTextLen
func (g *Grammar) DeriveBytes() ([]byte, error) {
	return g.DeriveBytesLimit(MaxTextLen)
}

// DeriveBytesLimit is like DeriveBytes but rejects texts longer than limit bytes.
func (g *Grammar) DeriveBytesLimit(limit uint64) ([]byte, error) {
	if g.Terminals > 256 {
		return nil, fmt.Errorf("%w: %d terminals", errs.ErrNonByteAlphabet, g.Terminals)
	}

	text, err := g.DeriveTextLimit(limit)
	if err != nil || text == nil {
		return nil, err
	}

	out := make([]byte, len(text))
	for i, sym := range text {
		out[i] = byte(sym)
	}

	return out, nil
}

// Expand appends the text derived by sym to dst.
func (g *Grammar) Expand(dst []Symbol, sym Symbol) []Symbol {
	return g.appendDerived(dst, sym)
}

func (g *Grammar) appendDerived(dst []Symbol, sym Symbol) []Symbol {
	if g.IsTerminal(sym) {
		return append(dst, sym)
	}

	r := g.Rules[int(sym)-g.Terminals]
	if r.Kind == KindBlock {
		start := len(dst)
		dst = g.appendDerived(dst, r.First)
		end := len(dst)
		for i := Symbol(1); i < r.Second; i++ {
			dst = append(dst, dst[start:end]...)
		}

		return dst
	}

	dst = g.appendDerived(dst, r.First)

	return g.appendDerived(dst, r.Second)
}

// Extract returns n symbols of the derived text starting at pos.
//
// The walk descends only into the rules overlapping [pos, pos+n) and uses the memoized
// lengths to skip everything else, so extracting a short substring does not decompress
// the whole text. If pos+n exceeds the text length the result is truncated at the end
// of the text.
//
// Parameters:
//   - pos: Start position in the derived text
//   - n: Number of symbols to extract
//
// Returns:
//   - []Symbol: The extracted symbols (empty if n <= 0)
//   - error: ErrEmptyGrammar or ErrPositionOutOfRange
func (g *Grammar) Extract(pos, n int) ([]Symbol, error) {
	if g.Empty {
		return nil, errs.ErrEmptyGrammar
	}

	total := g.TextLen()
	if pos < 0 || uint64(pos) >= total {
		return nil, fmt.Errorf("%w: position %d, text length %d", errs.ErrPositionOutOfRange, pos, total)
	}
	if n <= 0 {
		return []Symbol{}, nil
	}

	from := uint64(pos)
	to := total
	if uint64(n) < total-from {
		to = from + uint64(n)
	}
	out := make([]Symbol, 0, to-from)

	return g.appendRange(out, g.Root, from, to), nil
}

// appendRange appends the symbols [from, to) of the text derived by sym, where
// 0 <= from < to <= Len(sym).
func (g *Grammar) appendRange(dst []Symbol, sym Symbol, from, to uint64) []Symbol {
	if g.IsTerminal(sym) {
		return append(dst, sym)
	}

	r := g.Rules[int(sym)-g.Terminals]
	if from == 0 && to == r.Len {
		return g.appendDerived(dst, sym)
	}

	if r.Kind == KindBlock {
		childLen := g.Len(r.First)
		for k := from / childLen; k <= (to-1)/childLen; k++ {
			lo := k * childLen
			s := max(from, lo) - lo
			e := min(to, lo+childLen) - lo
			dst = g.appendRange(dst, r.First, s, e)
		}

		return dst
	}

	leftLen := g.Len(r.First)
	if from < leftLen {
		dst = g.appendRange(dst, r.First, from, min(to, leftLen))
	}
	if to > leftLen {
		dst = g.appendRange(dst, r.Second, max(from, leftLen)-leftLen, to-leftLen)
	}

	return dst
}

// At returns the symbol at position pos of the derived text.
func (g *Grammar) At(pos int) (Symbol, error) {
	if g.Empty {
		return 0, errs.ErrEmptyGrammar
	}

	total := g.TextLen()
	if pos < 0 || uint64(pos) >= total {
		return 0, fmt.Errorf("%w: position %d, text length %d", errs.ErrPositionOutOfRange, pos, total)
	}

	sym := g.Root
	i := uint64(pos)
	for !g.IsTerminal(sym) {
		r := g.Rules[int(sym)-g.Terminals]
		if r.Kind == KindBlock {
			i %= g.Len(r.First)
			sym = r.First

			continue
		}

		if leftLen := g.Len(r.First); i < leftLen {
			sym = r.First
		} else {
			i -= leftLen
			sym = r.Second
		}
	}

	return sym, nil
}
