package section

import "math"

const (
	// Option bit masks
	EmptyMask        = 0x0001 // Mask for the empty-grammar bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for the endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for the magic number (bits 4-15)

	// MagicGrammarV1Opt identifies version 1 of the grammar container.
	MagicGrammarV1Opt = 0xEC10
)

// Container sizes.
const (
	HeaderSize     = 32             // fixed header size in bytes
	PayloadOffset  = HeaderSize     // byte offset where the payload starts
	MaxPayloadSize = math.MaxUint32 // largest payload a header can describe
)
