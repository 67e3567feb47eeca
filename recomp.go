// Package recomp builds run-length straight-line programs (RLSLPs) by parallel
// recompression.
//
// Recompression repeatedly replaces maximal runs of equal symbols by block symbols and
// then non-overlapping adjacent pairs, chosen by a partition of the alphabet, by pair
// symbols, until one symbol remains. The resulting grammar derives exactly the input and
// supports random access without decompression.
//
// # Basic Usage
//
//	import "github.com/arloliu/recomp"
//
//	g, err := recomp.RecompressBytes([]byte("abracadabra"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Stats())
//
//	// random access
//	sym, _ := g.At(4)
//
// Persisting a grammar:
//
//	data, _ := recomp.CompressBytes(input)
//	original, _ := recomp.DecompressBytes(data)
//
// # Package Structure
//
// This package wraps the most common calls. For fine-grained control use the
// recompression (engine), partition (pair selection strategies), grammar (the RLSLP
// model) and coder (binary container) packages directly.
package recomp

import (
	"bytes"
	"fmt"

	"github.com/arloliu/recomp/coder"
	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/recompression"
)

// Recompress builds the grammar of input over the alphabet [0, alphabetSize).
//
// Parameters:
//   - input: Symbols to recompress; not modified
//   - alphabetSize: Must exceed every input symbol
//   - opts: Engine options (workers, strategy, logger)
//
// Returns:
//   - *grammar.Grammar: Grammar deriving input
//   - error: Option or input validation errors
func Recompress(input []grammar.Symbol, alphabetSize int, opts ...recompression.Option) (*grammar.Grammar, error) {
	e, err := recompression.New(opts...)
	if err != nil {
		return nil, err
	}

	return e.Recompress(input, alphabetSize)
}

// RecompressBytes builds the grammar of data over the byte alphabet.
func RecompressBytes(data []byte, opts ...recompression.Option) (*grammar.Grammar, error) {
	e, err := recompression.New(opts...)
	if err != nil {
		return nil, err
	}

	return e.RecompressBytes(data)
}

// CompressBytes recompresses data and encodes the grammar in the default container
// (packed layout, zstd, little-endian).
func CompressBytes(data []byte, opts ...recompression.Option) ([]byte, error) {
	g, err := RecompressBytes(data, opts...)
	if err != nil {
		return nil, err
	}

	return coder.Encode(g)
}

// DecompressBytes decodes a container produced from byte input and derives the bytes.
//
// Containers deriving more than grammar.MaxTextLen bytes are rejected with
// ErrTextTooLarge.
func DecompressBytes(container []byte) ([]byte, error) {
	return DecompressBytesLimit(container, grammar.MaxTextLen)
}

// DecompressBytesLimit is like DecompressBytes but rejects containers deriving more
// than maxLen bytes before any expansion.
//
// Parameters:
//   - container: Encoded grammar
//   - maxLen: Largest accepted derived length in bytes
//
// Returns:
//   - []byte: The derived bytes
//   - error: Container errors, ErrNonByteAlphabet or ErrTextTooLarge
func DecompressBytesLimit(container []byte, maxLen uint64) ([]byte, error) {
	g, err := coder.Decode(container)
	if err != nil {
		return nil, err
	}

	return g.DeriveBytesLimit(maxLen)
}

// Verify reports whether g derives exactly data.
//
// The derived length is compared first, so a grammar of a different length is rejected
// without expanding it.
//
// Returns:
//   - error: ErrRoundTripMismatch naming the first differing position, or
//     ErrNonByteAlphabet for grammars over wider alphabets
func Verify(g *grammar.Grammar, data []byte) error {
	if n := g.TextLen(); n != uint64(len(data)) {
		return fmt.Errorf("%w: grammar derives %d bytes, expected %d", errs.ErrRoundTripMismatch, n, len(data))
	}

	derived, err := g.DeriveBytesLimit(uint64(len(data)))
	if err != nil {
		return err
	}
	if bytes.Equal(derived, data) {
		return nil
	}

	pos := 0
	for pos < len(derived) && pos < len(data) && derived[pos] == data[pos] {
		pos++
	}

	return fmt.Errorf("%w: first difference at byte %d (derived %d bytes, expected %d)",
		errs.ErrRoundTripMismatch, pos, len(derived), len(data))
}
