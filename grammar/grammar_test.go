package grammar

import (
	"math"
	"testing"

	"github.com/arloliu/recomp/errs"
	"github.com/stretchr/testify/require"
)

// buildSample builds the grammar of "abbbabbbc" over {a=0, b=1, c=2}:
//
//	3 -> 1^3, 4 -> 0·3, 5 -> 4^2, 6 -> 5·2
func buildSample(t *testing.T) *Grammar {
	t.Helper()

	g := New(3)
	require.NoError(t, g.AppendBlockRules([]Rule{NewBlockRule(1, 3, 1)}))
	require.NoError(t, g.AppendPairRules([]Rule{NewPairRule(0, 3, 4)}))
	require.NoError(t, g.AppendBlockRules([]Rule{NewBlockRule(4, 2, 4)}))
	require.NoError(t, g.AppendPairRules([]Rule{NewPairRule(5, 2, 9)}))
	require.NoError(t, g.SetRoot(6))

	return g
}

var sampleText = []Symbol{0, 1, 1, 1, 0, 1, 1, 1, 2}

func TestNew(t *testing.T) {
	g := New(256)

	require.True(t, g.Empty)
	require.Equal(t, 256, g.Terminals)
	require.Equal(t, 0, g.Size())
	require.Equal(t, Symbol(256), g.NextSymbol())
	require.Nil(t, derive(t, g))
	require.Equal(t, uint64(0), g.TextLen())
	require.NoError(t, g.Validate())
}

func TestGrammar_SymbolQueries(t *testing.T) {
	g := buildSample(t)

	require.True(t, g.IsTerminal(0))
	require.True(t, g.IsTerminal(2))
	require.False(t, g.IsTerminal(3))

	require.True(t, g.IsBlock(3))
	require.True(t, g.IsPair(4))
	require.True(t, g.IsBlock(5))
	require.True(t, g.IsPair(6))
	require.False(t, g.IsBlock(1))
	require.False(t, g.IsPair(7))

	r, ok := g.Rule(5)
	require.True(t, ok)
	require.Equal(t, 2, r.RunLength())
	require.Equal(t, Symbol(4), r.First)

	_, ok = g.Rule(1)
	require.False(t, ok)

	require.Equal(t, 4, g.Size())
	require.Equal(t, 2, g.Blocks)
	require.Equal(t, 2, g.Pairs())
	require.Equal(t, Symbol(7), g.NextSymbol())
}

func TestGrammar_Len(t *testing.T) {
	g := buildSample(t)

	require.Equal(t, uint64(1), g.Len(0))
	require.Equal(t, uint64(3), g.Len(3))
	require.Equal(t, uint64(4), g.Len(4))
	require.Equal(t, uint64(8), g.Len(5))
	require.Equal(t, uint64(9), g.Len(6))
	require.Equal(t, uint64(0), g.Len(100))
	require.Equal(t, uint64(9), g.TextLen())
}

func TestGrammar_AppendRules(t *testing.T) {
	t.Run("Block run too short", func(t *testing.T) {
		g := New(2)
		err := g.AppendBlockRules([]Rule{NewBlockRule(1, 1, 1)})
		require.ErrorIs(t, err, errs.ErrInvalidRule)
		require.Equal(t, 0, g.Size())
	})

	t.Run("Block length mismatch", func(t *testing.T) {
		g := New(2)
		err := g.AppendBlockRules([]Rule{{First: 1, Second: 3, Len: 4, Kind: KindBlock}})
		require.ErrorIs(t, err, errs.ErrInvalidRule)
	})

	t.Run("Pair in block batch", func(t *testing.T) {
		g := New(2)
		err := g.AppendBlockRules([]Rule{NewPairRule(0, 1, 2)})
		require.ErrorIs(t, err, errs.ErrInvalidRule)
	})

	t.Run("Pair references undefined symbol", func(t *testing.T) {
		g := New(2)
		err := g.AppendPairRules([]Rule{NewPairRule(0, 2, 2)})
		require.ErrorIs(t, err, errs.ErrInvalidRule)
	})

	t.Run("Batch rejected as a whole", func(t *testing.T) {
		g := New(2)
		err := g.AppendPairRules([]Rule{NewPairRule(0, 1, 2), NewPairRule(0, 9, 2)})
		require.ErrorIs(t, err, errs.ErrInvalidRule)
		require.Equal(t, 0, g.Size())
	})

	t.Run("Symbol space exhausted", func(t *testing.T) {
		g := New(MaxSymbol)
		require.NoError(t, g.Reserve(1))
		require.ErrorIs(t, g.Reserve(2), errs.ErrSymbolSpaceExhausted)
	})

	t.Run("Invalid root", func(t *testing.T) {
		g := New(2)
		require.ErrorIs(t, g.SetRoot(2), errs.ErrInvalidRoot)
		require.True(t, g.Empty)
	})
}

func TestGrammar_DeriveText(t *testing.T) {
	g := buildSample(t)
	require.Equal(t, sampleText, derive(t, g))

	t.Run("Terminal root", func(t *testing.T) {
		g := New(3)
		require.NoError(t, g.SetRoot(1))
		require.Equal(t, []Symbol{1}, derive(t, g))
		require.Equal(t, uint64(1), g.TextLen())
	})

	t.Run("Expand sub-symbol", func(t *testing.T) {
		require.Equal(t, []Symbol{0, 1, 1, 1}, g.Expand(nil, 4))
	})
}

func TestGrammar_DeriveBytes(t *testing.T) {
	g := New(256)
	require.NoError(t, g.AppendPairRules([]Rule{NewPairRule('h', 'i', 2)}))
	require.NoError(t, g.AppendBlockRules([]Rule{NewBlockRule(256, 2, 2)}))
	require.NoError(t, g.SetRoot(257))

	data, err := g.DeriveBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hihi"), data)

	wide := New(300)
	require.NoError(t, wide.SetRoot(299))
	_, err = wide.DeriveBytes()
	require.ErrorIs(t, err, errs.ErrNonByteAlphabet)
}

// hugeGrammar derives 0 repeated 2^62 times with two rules.
func hugeGrammar(t *testing.T) *Grammar {
	t.Helper()

	g := New(256)
	require.NoError(t, g.AppendBlockRules([]Rule{NewBlockRule(0, 1<<31, 1)}))
	require.NoError(t, g.AppendBlockRules([]Rule{NewBlockRule(256, 1<<31, 1<<31)}))
	require.NoError(t, g.SetRoot(257))

	return g
}

func TestGrammar_DeriveTooLarge(t *testing.T) {
	g := hugeGrammar(t)
	require.Equal(t, uint64(1)<<62, g.TextLen())
	require.NoError(t, g.Validate())

	_, err := g.DeriveText()
	require.ErrorIs(t, err, errs.ErrTextTooLarge)
	_, err = g.DeriveBytes()
	require.ErrorIs(t, err, errs.ErrTextTooLarge)
	_, err = g.DeriveTextLimit(math.MaxUint64)
	require.ErrorIs(t, err, errs.ErrTextTooLarge, "limit is capped")

	// random access still works
	sym, err := g.At(1 << 61)
	require.NoError(t, err)
	require.Equal(t, Symbol(0), sym)
	part, err := g.Extract(1<<62-2, 10)
	require.NoError(t, err)
	require.Equal(t, []Symbol{0, 0}, part)

	t.Run("caller limit", func(t *testing.T) {
		sample := buildSample(t)
		_, err := sample.DeriveTextLimit(sample.TextLen() - 1)
		require.ErrorIs(t, err, errs.ErrTextTooLarge)

		text, err := sample.DeriveTextLimit(sample.TextLen())
		require.NoError(t, err)
		require.Equal(t, sampleText, text)
	})
}

func TestGrammar_Extract(t *testing.T) {
	g := buildSample(t)

	for pos := range sampleText {
		for n := 1; n <= len(sampleText)-pos; n++ {
			got, err := g.Extract(pos, n)
			require.NoError(t, err)
			require.Equal(t, sampleText[pos:pos+n], got, "pos=%d n=%d", pos, n)
		}
	}

	t.Run("Truncated at end", func(t *testing.T) {
		got, err := g.Extract(7, 10)
		require.NoError(t, err)
		require.Equal(t, []Symbol{1, 2}, got)
	})

	t.Run("Zero length", func(t *testing.T) {
		got, err := g.Extract(3, 0)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := g.Extract(9, 1)
		require.ErrorIs(t, err, errs.ErrPositionOutOfRange)
		_, err = g.Extract(-1, 1)
		require.ErrorIs(t, err, errs.ErrPositionOutOfRange)
	})

	t.Run("Empty grammar", func(t *testing.T) {
		_, err := New(2).Extract(0, 1)
		require.ErrorIs(t, err, errs.ErrEmptyGrammar)
	})
}

func TestGrammar_At(t *testing.T) {
	g := buildSample(t)

	for pos, want := range sampleText {
		got, err := g.At(pos)
		require.NoError(t, err)
		require.Equal(t, want, got, "pos=%d", pos)
	}

	_, err := g.At(len(sampleText))
	require.ErrorIs(t, err, errs.ErrPositionOutOfRange)

	_, err = New(2).At(0)
	require.ErrorIs(t, err, errs.ErrEmptyGrammar)
}

func TestGrammar_BlocksFirst(t *testing.T) {
	g := buildSample(t)
	require.False(t, g.HasBlockPrefix())

	canon := g.BlocksFirst()
	require.True(t, canon.HasBlockPrefix())
	require.Equal(t, 2, canon.Blocks)
	require.Equal(t, []Rule{
		NewBlockRule(1, 3, 1),
		NewBlockRule(5, 2, 4),
		NewPairRule(0, 3, 4),
		NewPairRule(4, 2, 9),
	}, canon.Rules)
	require.Equal(t, Symbol(6), canon.Root)
	require.Equal(t, sampleText, derive(t, canon))
	require.NoError(t, canon.Validate())

	// the source grammar is untouched
	require.Equal(t, NewPairRule(0, 3, 4), g.Rules[1])

	t.Run("Idempotent", func(t *testing.T) {
		require.True(t, canon.Equal(canon.BlocksFirst()))
	})

	t.Run("Empty", func(t *testing.T) {
		e := New(4).BlocksFirst()
		require.True(t, e.Empty)
		require.True(t, e.HasBlockPrefix())
	})
}

func TestGrammar_ComputeLengths(t *testing.T) {
	canon := buildSample(t).BlocksFirst()
	for i := range canon.Rules {
		canon.Rules[i].Len = 0
	}

	require.NoError(t, canon.ComputeLengths())
	require.Equal(t, uint64(9), canon.TextLen())
	require.Equal(t, uint64(8), canon.Len(4))
	require.NoError(t, canon.Validate())
}

func TestGrammar_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, buildSample(t).Validate())
	})

	t.Run("Cycle", func(t *testing.T) {
		g := &Grammar{
			Terminals: 2,
			Rules: []Rule{
				NewPairRule(0, 3, 0),
				NewPairRule(2, 1, 0),
			},
			Root: 3,
		}
		require.ErrorIs(t, g.ComputeLengths(), errs.ErrCyclicGrammar)
		require.ErrorIs(t, g.Validate(), errs.ErrCyclicGrammar)
	})

	t.Run("Self reference", func(t *testing.T) {
		g := &Grammar{Terminals: 2, Rules: []Rule{{First: 2, Second: 2, Kind: KindBlock}}, Blocks: 1, Root: 2}
		require.ErrorIs(t, g.Validate(), errs.ErrCyclicGrammar)
	})

	t.Run("Dangling reference", func(t *testing.T) {
		g := &Grammar{Terminals: 2, Rules: []Rule{NewPairRule(0, 7, 2)}, Root: 2}
		require.ErrorIs(t, g.Validate(), errs.ErrInvalidRule)
	})

	t.Run("Block count mismatch", func(t *testing.T) {
		g := buildSample(t)
		g.Blocks = 1
		require.ErrorIs(t, g.Validate(), errs.ErrInvalidRule)
	})

	t.Run("Stale length", func(t *testing.T) {
		g := buildSample(t)
		g.Rules[3].Len = 10
		require.ErrorIs(t, g.Validate(), errs.ErrInvalidRule)
	})

	t.Run("Undefined root", func(t *testing.T) {
		g := buildSample(t)
		g.Root = 42
		require.ErrorIs(t, g.Validate(), errs.ErrInvalidRoot)
	})
}

func TestGrammar_CloneEqual(t *testing.T) {
	g := buildSample(t)
	c := g.Clone()
	require.True(t, g.Equal(c))

	c.Rules[0].Second = 4
	require.False(t, g.Equal(c))
	require.Equal(t, Symbol(3), g.Rules[0].Second)

	require.True(t, (*Grammar)(nil).Equal(nil))
	require.False(t, g.Equal(nil))
}

func TestGrammar_Stats(t *testing.T) {
	s := buildSample(t).Stats()

	require.Equal(t, Stats{Terminals: 3, Rules: 4, Blocks: 2, Pairs: 2, TextLen: 9, Depth: 4}, s)
	require.Contains(t, s.String(), "depth=4")
	require.Equal(t, 0, New(3).Stats().Depth)
}

func TestGrammar_String(t *testing.T) {
	out := buildSample(t).String()

	require.Contains(t, out, "3 -> 1^3 (len=3)")
	require.Contains(t, out, "6 -> 5·2 (len=9)")
	require.Contains(t, out, "root: 6")
	require.Contains(t, New(2).String(), "root: <empty>")
}

func derive(t testing.TB, g *Grammar) []Symbol {
	t.Helper()

	text, err := g.DeriveText()
	require.NoError(t, err)

	return text
}
