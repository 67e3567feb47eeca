package pool

import (
	"sync"

	"github.com/arloliu/recomp/grammar"
)

// Slice pools for the per-level scratch arrays of recompression.
// A level allocates a symbol buffer, a kept mask and per-worker counters; the pools let
// consecutive levels (and consecutive runs) reuse them.
var (
	symbolSlicePool = sync.Pool{
		New: func() any { return &[]grammar.Symbol{} },
	}
	boolSlicePool = sync.Pool{
		New: func() any { return &[]bool{} },
	}
	intSlicePool = sync.Pool{
		New: func() any { return &[]int{} },
	}
)

// GetSymbolSlice retrieves and resizes a symbol slice from the pool.
//
// The returned slice will have the exact length specified by the size parameter. Its
// contents are unspecified; callers overwrite every element they read.
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Parameters:
//   - size: The desired length of the slice
//
// Returns:
//   - []grammar.Symbol: A slice with length equal to size
//   - func(): Cleanup function that must be called (typically with defer) to return the slice to the pool
//
// Example:
//
//	next, cleanup := pool.GetSymbolSlice(kept)
//	defer cleanup()
func GetSymbolSlice(size int) ([]grammar.Symbol, func()) {
	ptr, _ := symbolSlicePool.Get().(*[]grammar.Symbol)

	return resize(ptr, size), func() { symbolSlicePool.Put(ptr) }
}

// GetBoolSlice retrieves a bool slice of the given length from the pool with every
// element set to value.
func GetBoolSlice(size int, value bool) ([]bool, func()) {
	ptr, _ := boolSlicePool.Get().(*[]bool)
	slice := resize(ptr, size)
	for i := range slice {
		slice[i] = value
	}

	return slice, func() { boolSlicePool.Put(ptr) }
}

// GetIntSlice retrieves a zeroed int slice of the given length from the pool.
func GetIntSlice(size int) ([]int, func()) {
	ptr, _ := intSlicePool.Get().(*[]int)
	slice := resize(ptr, size)
	clear(slice)

	return slice, func() { intSlicePool.Put(ptr) }
}

func resize[T any](ptr *[]T, size int) []T {
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice
}
