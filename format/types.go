// Package format defines the identifiers stored in grammar container headers.
package format

type (
	// LayoutType selects how rules are laid out in the container payload.
	LayoutType uint8
	// CompressionType selects the codec applied to the payload.
	CompressionType uint8
)

const (
	LayoutFixed  LayoutType = 0x1 // LayoutFixed stores every rule as two 32-bit words.
	LayoutPacked LayoutType = 0x2 // LayoutPacked bit-packs rule fields at the minimal width.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (l LayoutType) String() string {
	switch l {
	case LayoutFixed:
		return "Fixed"
	case LayoutPacked:
		return "Packed"
	default:
		return "Unknown"
	}
}

// Valid reports whether l is a known layout.
func (l LayoutType) Valid() bool {
	return l == LayoutFixed || l == LayoutPacked
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseLayout maps a case-sensitive lower-case name ("fixed", "packed") to its layout.
func ParseLayout(name string) (LayoutType, bool) {
	switch name {
	case "fixed":
		return LayoutFixed, true
	case "packed":
		return LayoutPacked, true
	default:
		return 0, false
	}
}

// ParseCompression maps a lower-case name ("none", "zstd", "s2", "lz4") to its type.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
