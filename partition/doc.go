// Package partition computes the symbol partitions that drive pair compression.
//
// A pair compression pass splits the symbols of the current text into two classes,
// Left and Right, and replaces every adjacent pair whose first symbol is in one class
// and whose second symbol is in the other. Which orientation is replaced is given by
// the partition's Direction. Because a symbol cannot be in both classes, replaced pairs
// never overlap.
//
// The number of replaced pairs is the directed cut of the partition in the adjacency
// multigraph of the text. Several heuristics are provided:
//
//   - Greedy: sequential greedy undirected max-cut, then the better orientation
//   - Random: best of k uniform random bipartitions
//   - WeightedRandom: frequency-balanced bipartition
//   - LocalSearch: random start improved by flip rounds
//
// Every strategy guarantees that both classes are non-empty whenever the text holds at
// least two distinct symbols, so a pass always makes progress.
package partition
