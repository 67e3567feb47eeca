// Package recompression builds a run-length straight-line program (RLSLP) from a text by
// recompression.
//
// Each level of the computation runs two passes over the current sequence:
//
//   - bcomp replaces every maximal run of at least two equal symbols by a block symbol
//   - pcomp replaces every adjacent pair that crosses the partition computed by the
//     configured partition.Strategy by a pair symbol
//
// and stops once the sequence has at most one symbol, which becomes the root of the
// grammar.
//
// Both passes follow the same parallel discipline: every worker scans a contiguous range
// of the sequence and records its occurrences locally; a prefix sum over the per-worker
// counts gives each worker a disjoint slice of a shared array to scatter into. The
// occurrences are sorted stably by rule key, a second prefix sum over the number of
// distinct keys per chunk assigns rule ids, and the sequence is compacted with a third
// count-and-scatter. No locks or shared maps are involved, and the result does not
// depend on the number of workers.
//
// # Basic Usage
//
//	engine, err := recompression.New(
//		recompression.WithWorkers(8),
//		recompression.WithStrategy(partition.NewGreedy()),
//	)
//	if err != nil {
//		return err
//	}
//	g, err := engine.RecompressBytes(data)
package recompression
