// Package grammar provides the run-length straight-line program (RLSLP) produced by
// recompression.
//
// An RLSLP is a context-free grammar that derives exactly one text. Besides the terminal
// alphabet it holds two kinds of production rules:
//
//   - Block rules X -> Y^d: the symbol Y repeated d times (d >= 2)
//   - Pair rules X -> Y Z: the concatenation of Y and Z
//
// Symbols below Grammar.Terminals are terminals; every other symbol s refers to rule
// Rules[s-Terminals]. Each rule memoizes the length of the text it derives, so length
// queries never walk the derivation tree.
//
// # Layouts
//
// Recompression appends rules level by level, so in construction order rule ids strictly
// increase and every rule references only terminals or rules of an earlier pass. Block and
// pair rules are interleaved; each rule carries its RuleKind.
//
// BlocksFirst renames the symbols so that all block rules form the prefix
// [Terminals, Terminals+Blocks) of the symbol space. This canonical layout is the one
// persisted by the coder package, which can then omit per-rule kind bits.
//
// # Basic Usage
//
//	text, err := g.DeriveText()      // full expansion
//	part, err := g.Extract(100, 16)  // 16 symbols starting at position 100
//	sym, err := g.At(42)             // a single symbol
//	n := g.TextLen()                 // derived length, O(1)
package grammar
