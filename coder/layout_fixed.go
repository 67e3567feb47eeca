package coder

import (
	"fmt"

	"github.com/arloliu/recomp/endian"
	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/pool"
)

// fixedRuleSize is the size of one rule in the fixed layout.
const fixedRuleSize = 8

func encodeFixed(buf *pool.ByteBuffer, g *grammar.Grammar, engine endian.EndianEngine) {
	dst := buf.ExtendOrGrow(fixedRuleSize * len(g.Rules))
	for i, r := range g.Rules {
		engine.PutUint32(dst[i*fixedRuleSize:], uint32(r.First))
		engine.PutUint32(dst[i*fixedRuleSize+4:], uint32(r.Second))
	}
}

func decodeFixed(payload []byte, ruleCount, blocks int, engine endian.EndianEngine) ([]grammar.Rule, error) {
	if len(payload) != fixedRuleSize*ruleCount {
		return nil, fmt.Errorf("%w: %d bytes for %d fixed rules", errs.ErrInvalidPayloadSize, len(payload), ruleCount)
	}

	rules := make([]grammar.Rule, ruleCount)
	for i := range rules {
		rules[i] = grammar.Rule{
			First:  grammar.Symbol(engine.Uint32(payload[i*fixedRuleSize:])),
			Second: grammar.Symbol(engine.Uint32(payload[i*fixedRuleSize+4:])),
			Kind:   kindAt(i, blocks),
		}
	}

	return rules, nil
}

func kindAt(i, blocks int) grammar.RuleKind {
	if i < blocks {
		return grammar.KindBlock
	}

	return grammar.KindPair
}
