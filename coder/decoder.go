package coder

import (
	"fmt"
	"io"

	"github.com/arloliu/recomp/compress"
	"github.com/arloliu/recomp/endian"
	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/format"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/hash"
	"github.com/arloliu/recomp/section"
)

// Decoder reads a grammar container.
type Decoder struct {
	data   []byte
	header section.Header
	engine endian.EndianEngine
}

// NewDecoder parses and validates the header of data.
//
// Parameters:
//   - data: Complete container bytes; the decoder does not copy them
//
// Returns:
//   - *Decoder: Decoder positioned after the header
//   - error: Header errors, ErrTruncatedPayload or ErrInvalidPayloadSize if the size of
//     data does not match the header
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	total := containerSize(header)
	if uint64(len(data)) < total {
		return nil, fmt.Errorf("%w: have %d bytes, container needs %d", errs.ErrTruncatedPayload, len(data), total)
	}
	if uint64(len(data)) > total {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidPayloadSize, uint64(len(data))-total)
	}

	return &Decoder{data: data, header: header, engine: header.Flag.GetEndianEngine()}, nil
}

// Header returns the parsed header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// Verify checks the checksum trailer.
func (d *Decoder) Verify() error {
	end := len(d.data) - hash.ChecksumSize
	want := d.engine.Uint64(d.data[end:])
	if got := hash.Checksum(d.data[:end]); got != want {
		return fmt.Errorf("%w: stored %016x, computed %016x", errs.ErrChecksumMismatch, want, got)
	}

	return nil
}

// Decode verifies the checksum, decodes the rules and returns the validated grammar.
func (d *Decoder) Decode() (*grammar.Grammar, error) {
	if err := d.Verify(); err != nil {
		return nil, err
	}

	h := d.header
	stored := d.data[section.PayloadOffset : section.PayloadOffset+int(h.PayloadSize)]
	codec, err := compress.GetCodec(h.Flag.CompressionType())
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	ruleCount, blocks := int(h.RuleCount), int(h.Blocks)
	var rules []grammar.Rule
	switch h.Flag.LayoutType() {
	case format.LayoutFixed:
		rules, err = decodeFixed(payload, ruleCount, blocks, d.engine)
	case format.LayoutPacked:
		rules, err = decodePacked(payload, ruleCount, blocks)
	default:
		err = fmt.Errorf("%w: %v", errs.ErrUnsupportedLayout, h.Flag.LayoutType())
	}
	if err != nil {
		return nil, err
	}

	g := &grammar.Grammar{
		Terminals: int(h.Terminals),
		Blocks:    blocks,
		Rules:     rules,
		Root:      grammar.Symbol(h.Root),
		Empty:     h.IsEmpty(),
	}
	if err := g.ComputeLengths(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.TextLen() != h.TextLen {
		return nil, fmt.Errorf("%w: header length %d, grammar derives %d", errs.ErrInvalidRoot, h.TextLen, g.TextLen())
	}

	return g, nil
}

// Decode decodes a complete container.
func Decode(data []byte) (*grammar.Grammar, error) {
	d, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return d.Decode()
}

// ReadFrom reads exactly one container from r and decodes it.
func ReadFrom(r io.Reader) (*grammar.Grammar, error) {
	head := make([]byte, section.HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header, err := section.ParseHeader(head)
	if err != nil {
		return nil, err
	}

	data := make([]byte, containerSize(header))
	copy(data, head)
	if _, err := io.ReadFull(r, data[section.HeaderSize:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncatedPayload, err)
	}

	return Decode(data)
}

func containerSize(h section.Header) uint64 {
	return uint64(section.HeaderSize) + uint64(h.PayloadSize) + uint64(hash.ChecksumSize)
}
