package compress

// ZstdCompressor compresses payloads with Zstandard at the default level.
//
// It gives the best ratio of the built-in codecs and is the default for archived
// grammars. The implementation is selected at build time, see zstd_pure.go and
// zstd_gozstd.go.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
