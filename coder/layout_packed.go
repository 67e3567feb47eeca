package coder

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/bitstream"
	"github.com/arloliu/recomp/internal/pool"
)

const (
	widthFieldBits = 6
	maxFieldWidth  = 32
)

// packedWidths are the field widths of the packed layout.
type packedWidths struct {
	blockSym int
	run      int
	pair     int
}

func computeWidths(g *grammar.Grammar) packedWidths {
	var maxBlockSym, maxRun uint32
	for _, r := range g.Rules[:g.Blocks] {
		maxBlockSym = max(maxBlockSym, uint32(r.First))
		maxRun = max(maxRun, uint32(r.Second))
	}

	w := packedWidths{
		blockSym: bits.Len32(maxBlockSym),
		run:      bits.Len32(maxRun),
	}
	if symbols := uint64(g.Terminals) + uint64(len(g.Rules)); symbols > 0 {
		w.pair = bits.Len64(symbols - 1)
	}

	return w
}

func encodePacked(buf *pool.ByteBuffer, g *grammar.Grammar) {
	w := computeWidths(g)
	bw := bitstream.NewWriter(buf)

	bw.WriteBits(uint64(w.blockSym), widthFieldBits)
	bw.WriteBits(uint64(w.run), widthFieldBits)
	bw.WriteBits(uint64(w.pair), widthFieldBits)

	for _, r := range g.Rules[:g.Blocks] {
		bw.WriteBits(uint64(r.First), w.blockSym)
		bw.WriteBits(uint64(r.Second), w.run)
	}
	for _, r := range g.Rules[g.Blocks:] {
		bw.WriteBits(uint64(r.First), w.pair)
		bw.WriteBits(uint64(r.Second), w.pair)
	}
	bw.Finish()
}

func decodePacked(payload []byte, ruleCount, blocks int) ([]grammar.Rule, error) {
	br := bitstream.NewReader(payload)

	var widths [3]int
	for i := range widths {
		v, ok := br.ReadBits(widthFieldBits)
		if !ok {
			return nil, fmt.Errorf("%w: packed widths", errs.ErrTruncatedPayload)
		}
		if v > maxFieldWidth {
			return nil, fmt.Errorf("%w: %d bits", errs.ErrInvalidFieldWidth, v)
		}
		widths[i] = int(v)
	}
	w := packedWidths{blockSym: widths[0], run: widths[1], pair: widths[2]}

	// every run is at least 2 and every pair rule names two symbols, so each rule
	// occupies at least two bits
	if blocks > 0 && w.run < 2 {
		return nil, fmt.Errorf("%w: run width %d", errs.ErrInvalidFieldWidth, w.run)
	}
	if ruleCount > blocks && w.pair == 0 {
		return nil, fmt.Errorf("%w: pair width 0", errs.ErrInvalidFieldWidth)
	}

	need := uint64(widthFieldBits*3) +
		uint64(blocks)*uint64(w.blockSym+w.run) +
		uint64(ruleCount-blocks)*uint64(2*w.pair)
	if need > uint64(len(payload))*8 {
		return nil, fmt.Errorf("%w: %d rules need %d bits, payload has %d",
			errs.ErrTruncatedPayload, ruleCount, need, len(payload)*8)
	}

	rules := make([]grammar.Rule, ruleCount)
	for i := range rules {
		firstWidth, secondWidth := w.pair, w.pair
		if i < blocks {
			firstWidth, secondWidth = w.blockSym, w.run
		}

		first, _ := br.ReadBits(firstWidth)
		second, _ := br.ReadBits(secondWidth)
		rules[i] = grammar.Rule{
			First:  grammar.Symbol(first),
			Second: grammar.Symbol(second),
			Kind:   kindAt(i, blocks),
		}
	}

	return rules, nil
}
