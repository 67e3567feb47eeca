package section

import (
	"fmt"

	"github.com/arloliu/recomp/endian"
	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/format"
)

// Flag is the packed first word of the header.
type Flag struct {
	// Options holds the empty bit, the endianness bit and the magic number.
	Options uint16
	// Layout is the format.LayoutType of the payload.
	Layout uint8
	// Compression is the format.CompressionType of the payload.
	Compression uint8
}

// NewFlag returns a little-endian flag for a packed, zstd-compressed payload.
func NewFlag() Flag {
	return Flag{
		Options:     MagicGrammarV1Opt,
		Layout:      uint8(format.LayoutPacked),
		Compression: uint8(format.CompressionZstd),
	}
}

// IsEmpty reports whether the container holds the empty grammar.
func (f Flag) IsEmpty() bool {
	return f.Options&EmptyMask != 0
}

// SetEmpty sets or clears the empty bit.
func (f *Flag) SetEmpty(empty bool) {
	if empty {
		f.Options |= EmptyMask
	} else {
		f.Options &^= EmptyMask
	}
}

// IsLittleEndian reports whether the header and payload words are little-endian.
func (f Flag) IsLittleEndian() bool {
	return f.Options&EndiannessMask == 0
}

// IsBigEndian reports whether the header and payload words are big-endian.
func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithLittleEndian selects little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian selects big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns bits 4-15 of Options.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// LayoutType returns the payload layout.
func (f Flag) LayoutType() format.LayoutType {
	return format.LayoutType(f.Layout)
}

// SetLayout sets the payload layout.
func (f *Flag) SetLayout(l format.LayoutType) {
	f.Layout = uint8(l)
}

// CompressionType returns the payload compression.
func (f Flag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetCompression sets the payload compression.
func (f *Flag) SetCompression(c format.CompressionType) {
	f.Compression = uint8(c)
}

// GetEndianEngine returns the engine selected by the endianness bit.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	return endian.ForFlag(f.IsBigEndian())
}

// Validate checks the magic number, the reserved bits, the layout and the compression.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicGrammarV1Opt {
		return fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, f.GetMagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved bits set in 0x%04x", errs.ErrInvalidHeaderFlags, f.Options)
	}
	if !f.LayoutType().Valid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedLayout, f.Layout)
	}
	if !f.CompressionType().Valid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompression, f.Compression)
	}

	return nil
}
