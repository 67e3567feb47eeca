// Package bitstream reads and writes MSB-first bit sequences.
//
// The packed grammar layout stores rule fields at their minimal width; Writer
// accumulates bits in a 64-bit register and flushes whole words big-endian, Reader
// refills its register byte by byte.
package bitstream

import (
	"encoding/binary"

	"github.com/arloliu/recomp/internal/pool"
)

// Writer appends bits to a pool.ByteBuffer.
type Writer struct {
	buf      *pool.ByteBuffer
	bitBuf   uint64
	bitCount int
	written  uint64
}

// NewWriter creates a Writer appending to buf.
func NewWriter(buf *pool.ByteBuffer) *Writer {
	return &Writer{buf: buf}
}

// WriteBits writes the low numBits bits of value, most significant first.
// numBits must be in [0, 64].
func (w *Writer) WriteBits(value uint64, numBits int) {
	if numBits == 0 {
		return
	}
	if numBits < 64 {
		value &= (1 << numBits) - 1
	}
	w.written += uint64(numBits)

	available := 64 - w.bitCount
	if numBits <= available {
		if numBits == 64 {
			w.bitBuf = value
		} else {
			w.bitBuf = (w.bitBuf << numBits) | value
		}
		w.bitCount += numBits
		if w.bitCount == 64 {
			w.flush()
		}

		return
	}

	// split across the register boundary
	rest := numBits - available
	w.bitBuf = (w.bitBuf << available) | (value >> rest)
	w.bitCount = 64
	w.flush()

	w.bitBuf = value & ((1 << rest) - 1)
	w.bitCount = rest
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(bit bool) {
	var v uint64
	if bit {
		v = 1
	}
	w.WriteBits(v, 1)
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() uint64 {
	return w.written
}

// Finish flushes pending bits, padding the last byte with zeros.
func (w *Writer) Finish() {
	w.flush()
}

func (w *Writer) flush() {
	if w.bitCount == 0 {
		return
	}

	numBytes := (w.bitCount + 7) / 8
	aligned := w.bitBuf << (64 - w.bitCount)
	dst := w.buf.ExtendOrGrow(numBytes)
	if numBytes == 8 {
		binary.BigEndian.PutUint64(dst, aligned)
	} else {
		for i := range numBytes {
			dst[i] = byte(aligned >> (56 - 8*i))
		}
	}

	w.bitBuf = 0
	w.bitCount = 0
}

// Reader reads bits written by Writer.
type Reader struct {
	data     []byte
	bytePos  int
	bitBuf   uint64
	bitCount int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits reads numBits bits (0 to 64) and returns them right-aligned. It reports
// false if the data ends first.
func (r *Reader) ReadBits(numBits int) (uint64, bool) {
	if numBits == 0 {
		return 0, true
	}
	if numBits <= r.bitCount {
		return r.take(numBits), true
	}

	var result uint64
	for numBits > 0 {
		if r.bitCount == 0 && !r.fill() {
			return 0, false
		}
		n := min(numBits, r.bitCount)
		if n == 64 {
			result = r.take(64)
		} else {
			result = (result << n) | r.take(n)
		}
		numBits -= n
	}

	return result, true
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, bool) {
	if r.bitCount == 0 && !r.fill() {
		return false, false
	}

	return r.take(1) == 1, true
}

// Remaining returns the number of unread bits, padding included.
func (r *Reader) Remaining() int {
	return r.bitCount + 8*(len(r.data)-r.bytePos)
}

func (r *Reader) take(n int) uint64 {
	v := r.bitBuf >> (64 - n)
	if n == 64 {
		r.bitBuf = 0
	} else {
		r.bitBuf <<= n
	}
	r.bitCount -= n

	return v
}

// fill loads up to eight bytes into the empty register.
func (r *Reader) fill() bool {
	left := len(r.data) - r.bytePos
	if left <= 0 {
		return false
	}
	if left >= 8 {
		r.bitBuf = binary.BigEndian.Uint64(r.data[r.bytePos:])
		r.bitCount = 64
		r.bytePos += 8

		return true
	}

	r.bitBuf = 0
	for i := range left {
		r.bitBuf |= uint64(r.data[r.bytePos+i]) << (56 - 8*i)
	}
	r.bitCount = 8 * left
	r.bytePos += left

	return true
}
