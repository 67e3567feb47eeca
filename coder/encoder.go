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
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/internal/pool"
	"github.com/arloliu/recomp/section"
)

// Encode serializes g into a new container.
//
// The grammar is validated first; it is re-laid out in block-prefix order if needed,
// without modifying g.
//
// Parameters:
//   - g: Grammar to persist
//   - opts: WithLayout, WithCompression, WithLittleEndian, WithBigEndian
//
// Returns:
//   - []byte: The container bytes, owned by the caller
//   - error: Option errors, grammar validation errors, or ErrGrammarTooLarge
func Encode(g *grammar.Grammar, opts ...Option) ([]byte, error) {
	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	if err := encodeTo(buf, g, opts...); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// WriteTo encodes g and writes the container to w.
//
// Returns:
//   - int64: Number of bytes written
//   - error: Encoding errors or the writer's error
func WriteTo(w io.Writer, g *grammar.Grammar, opts ...Option) (int64, error) {
	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	if err := encodeTo(buf, g, opts...); err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}

func encodeTo(buf *pool.ByteBuffer, g *grammar.Grammar, opts ...Option) error {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	if err := g.Validate(); err != nil {
		return fmt.Errorf("encode grammar: %w", err)
	}
	if !g.HasBlockPrefix() {
		g = g.BlocksFirst()
	}

	header, err := section.NewHeader(g)
	if err != nil {
		return err
	}
	header.Flag.SetLayout(cfg.layout)
	header.Flag.SetCompression(cfg.compression)
	if cfg.endianness == bigEndianOpt {
		header.Flag.WithBigEndian()
	}
	engine := header.Flag.GetEndianEngine()

	payload, err := encodePayload(g, cfg, engine)
	if err != nil {
		return err
	}
	if uint64(len(payload)) > section.MaxPayloadSize {
		return fmt.Errorf("%w: payload of %d bytes", errs.ErrGrammarTooLarge, len(payload))
	}
	header.PayloadSize = uint32(len(payload)) //nolint:gosec

	buf.Grow(section.HeaderSize + len(payload) + hash.ChecksumSize)
	buf.B = header.AppendTo(buf.B)
	_, _ = buf.Write(payload)
	buf.B = engine.AppendUint64(buf.B, hash.Checksum(buf.Bytes()))

	return nil
}

// encodePayload lays out the rules and compresses them.
func encodePayload(g *grammar.Grammar, cfg *encoderConfig, engine endian.EndianEngine) ([]byte, error) {
	raw := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(raw)

	switch cfg.layout {
	case format.LayoutFixed:
		encodeFixed(raw, g, engine)
	case format.LayoutPacked:
		encodePacked(raw, g)
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	// the no-op codec aliases the pooled buffer
	if cfg.compression == format.CompressionNone {
		stored = append([]byte(nil), stored...)
	}

	return stored, nil
}
