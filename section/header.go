package section

import (
	"fmt"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
)

// Header is the fixed-size header at the start of a grammar container.
type Header struct {
	// Terminals is the size of the terminal alphabet.
	Terminals uint32 // byte offset 4-7
	// RuleCount is the number of rules in the payload.
	RuleCount uint32 // byte offset 8-11
	// Blocks is the number of leading block rules; the rest are pair rules.
	Blocks uint32 // byte offset 12-15
	// Root is the start symbol, 0 when the grammar is empty.
	Root uint32 // byte offset 16-19
	// TextLen is the length of the derived text.
	TextLen uint64 // byte offset 20-27
	// PayloadSize is the stored (compressed) payload size.
	PayloadSize uint32 // byte offset 28-31

	// Flag is the packed options word plus layout and compression.
	Flag Flag // byte offset 0-3
}

// NewHeader creates a header describing g with the default flag.
// The payload size is set by the writer once the payload is encoded.
//
// Returns:
//   - error: ErrGrammarTooLarge if a count does not fit in 32 bits
func NewHeader(g *grammar.Grammar) (*Header, error) {
	if uint64(g.Terminals)+uint64(g.Size()) > uint64(grammar.MaxSymbol)+1 {
		return nil, fmt.Errorf("%w: %d terminals and %d rules", errs.ErrGrammarTooLarge, g.Terminals, g.Size())
	}

	h := &Header{
		Terminals: uint32(g.Terminals), //nolint:gosec
		RuleCount: uint32(g.Size()),    //nolint:gosec
		Blocks:    uint32(g.Blocks),    //nolint:gosec
		Flag:      NewFlag(),
	}
	h.Flag.SetEmpty(g.Empty)
	if !g.Empty {
		h.Root = uint32(g.Root)
		h.TextLen = g.TextLen()
	}

	return h, nil
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Flag.Layout = data[2]
	h.Flag.Compression = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.Terminals = engine.Uint32(data[4:8])
	h.RuleCount = engine.Uint32(data[8:12])
	h.Blocks = engine.Uint32(data[12:16])
	h.Root = engine.Uint32(data[16:20])
	h.TextLen = engine.Uint64(data[20:28])
	h.PayloadSize = engine.Uint32(data[28:32])

	return h.Validate()
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	engine := h.Flag.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8), h.Flag.Layout, h.Flag.Compression)
	dst = engine.AppendUint32(dst, h.Terminals)
	dst = engine.AppendUint32(dst, h.RuleCount)
	dst = engine.AppendUint32(dst, h.Blocks)
	dst = engine.AppendUint32(dst, h.Root)
	dst = engine.AppendUint64(dst, h.TextLen)
	dst = engine.AppendUint32(dst, h.PayloadSize)

	return dst
}

// Validate checks the flag and the consistency of the counts.
func (h *Header) Validate() error {
	if err := h.Flag.Validate(); err != nil {
		return err
	}
	if h.Blocks > h.RuleCount {
		return fmt.Errorf("%w: %d blocks but %d rules", errs.ErrInvalidRule, h.Blocks, h.RuleCount)
	}
	if uint64(h.Terminals)+uint64(h.RuleCount) > uint64(grammar.MaxSymbol)+1 {
		return fmt.Errorf("%w: %d terminals and %d rules", errs.ErrGrammarTooLarge, h.Terminals, h.RuleCount)
	}

	if h.Flag.IsEmpty() {
		if h.Root != 0 || h.TextLen != 0 {
			return fmt.Errorf("%w: empty grammar with root %d and length %d", errs.ErrInvalidRoot, h.Root, h.TextLen)
		}

		return nil
	}
	if uint64(h.Root) >= uint64(h.Terminals)+uint64(h.RuleCount) {
		return fmt.Errorf("%w: %d", errs.ErrInvalidRoot, h.Root)
	}
	if h.TextLen == 0 {
		return fmt.Errorf("%w: non-empty grammar with zero length", errs.ErrInvalidRoot)
	}

	return nil
}

// IsEmpty reports whether the container holds the empty grammar.
func (h *Header) IsEmpty() bool {
	return h.Flag.IsEmpty()
}

// Symbols returns the size of the symbol space, terminals plus rules.
func (h *Header) Symbols() uint64 {
	return uint64(h.Terminals) + uint64(h.RuleCount)
}

// ParseHeader parses a Header from the start of data.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header
//   - error: ErrInvalidHeaderSize or validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
