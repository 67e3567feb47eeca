// Package coder persists grammars in a self-describing binary container.
//
// A container holds a section.Header, the rule payload and an xxHash64 checksum of both:
//
//	data, err := coder.Encode(g, coder.WithLayout(format.LayoutPacked),
//		coder.WithCompression(format.CompressionZstd))
//	if err != nil {
//		return err
//	}
//	back, err := coder.Decode(data)
//
// Rules are always stored in block-prefix order (see grammar.BlocksFirst), so the
// header's block count is enough to recover every rule kind. Decoding recomputes the
// expansion lengths and validates the grammar before returning it.
//
// Two payload layouts are supported:
//   - LayoutFixed: two 32-bit words per rule in the container byte order
//   - LayoutPacked: three 6-bit field widths followed by the rule fields at those widths;
//     block rules use a symbol width and a run width, pair rules a single symbol width
package coder
