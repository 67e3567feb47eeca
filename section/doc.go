// Package section defines the fixed-size header of a persisted grammar container.
//
// A container is laid out as:
//
//	┌─────────────────────────────────────────────┐
//	│ Header (32 bytes)                           │
//	├─────────────────────────────────────────────┤
//	│ Payload (PayloadSize bytes)                 │
//	│  - rules in block-prefix order, encoded in  │
//	│    the header's layout and compressed with  │
//	│    the header's codec                       │
//	├─────────────────────────────────────────────┤
//	│ Checksum (8 bytes, xxHash64 of the above)   │
//	└─────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|-------------------------------------------
//	0-1    | Options      | uint16 | empty bit, endianness bit, magic number
//	2      | Layout       | uint8  | format.LayoutType
//	3      | Compression  | uint8  | format.CompressionType
//	4-7    | Terminals    | uint32 | size of the terminal alphabet
//	8-11   | RuleCount    | uint32 | number of rules
//	12-15  | Blocks       | uint32 | number of leading block rules
//	16-19  | Root         | uint32 | start symbol (0 for the empty grammar)
//	20-27  | TextLen      | uint64 | length of the derived text
//	28-31  | PayloadSize  | uint32 | stored payload size in bytes
//
// Options is always little-endian so readers can decode the endianness bit before
// anything else; the remaining fields use the byte order it selects.
//
// # Options Bits
//
//	Bit    | Meaning
//	-------|--------------------------------------------
//	0      | grammar is empty (derives the empty text)
//	1      | 0 = little-endian, 1 = big-endian
//	2-3    | reserved, must be zero
//	4-15   | magic number, 0xEC1 for version 1
package section
