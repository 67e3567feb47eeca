// Package compress provides the codecs applied to grammar container payloads.
//
// A payload is the rule section of a container after layout encoding. Packed payloads
// are already dense, so the codecs mostly pay off for fixed-layout payloads and for
// grammars with many similar rules:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	stored, err := codec.Compress(payload)
//
// Available codecs:
//   - None: payload stored as is
//   - Zstd: klauspost/compress/zstd by default; valyala/gozstd when built with the
//     "gozstd" tag and cgo enabled
//   - S2: klauspost/compress/s2
//   - LZ4: pierrec/lz4/v4 block format
//
// All codecs are stateless values and safe for concurrent use; encoders and decoders
// are pooled internally where the underlying library benefits from reuse.
package compress
