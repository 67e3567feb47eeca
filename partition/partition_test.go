package partition

import (
	"math/rand/v2"
	"testing"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/stretchr/testify/require"
)

func syms(vals ...uint32) []grammar.Symbol {
	out := make([]grammar.Symbol, len(vals))
	for i, v := range vals {
		out[i] = grammar.Symbol(v)
	}

	return out
}

// randomBlockFree returns a random text over [0, sigma) without equal neighbours.
func randomBlockFree(n, sigma int, seed uint64) []grammar.Symbol {
	rng := rand.New(rand.NewPCG(seed, 7))
	out := make([]grammar.Symbol, n)
	for i := range out {
		for {
			s := grammar.Symbol(rng.IntN(sigma))
			if i == 0 || s != out[i-1] {
				out[i] = s
				break
			}
		}
	}

	return out
}

func TestPartition_Basics(t *testing.T) {
	p := New(5, 9)
	require.Equal(t, 5, p.Span())
	require.Equal(t, Left, p.Side(7))
	require.Equal(t, Left, p.Side(3), "out of range is Left")

	p.Set(7, Right)
	p.Set(42, Right)
	require.Equal(t, Right, p.Side(7))
	require.Equal(t, Left, p.Side(42))

	left, right := p.Count()
	require.Equal(t, 4, left)
	require.Equal(t, 1, right)

	require.True(t, p.Crosses(5, 7))
	require.False(t, p.Crosses(7, 5))
	require.False(t, p.Crosses(5, 6))

	p.Direction = RightToLeft
	require.Equal(t, Right, p.First())
	require.True(t, p.Crosses(7, 5))
	require.False(t, p.Crosses(5, 7))

	require.Contains(t, p.String(), "direction=RightToLeft")
	require.Equal(t, "Right", Right.String())
	require.Equal(t, "LeftToRight", LeftToRight.String())
}

func TestNewAdjacencyList(t *testing.T) {
	text := syms(3, 1, 3, 2)

	for workers := 1; workers <= 4; workers++ {
		adj := NewAdjacencyList(text, workers)
		require.Equal(t, AdjacencyList{
			{Hi: 3, Lo: 1, Forward: false},
			{Hi: 3, Lo: 1, Forward: true},
			{Hi: 3, Lo: 2, Forward: true},
		}, adj)
	}

	first, second := Edge{Hi: 3, Lo: 1, Forward: false}.Pair()
	require.Equal(t, grammar.Symbol(1), first)
	require.Equal(t, grammar.Symbol(3), second)

	require.Nil(t, NewAdjacencyList(syms(4), 2))
}

func TestDirectedCut(t *testing.T) {
	text := syms(2, 1, 2, 1, 8, 1, 6, 2, 3, 5, 4, 1, 7, 4, 1, 6, 2, 3, 5, 4, 1, 3, 2, 1)
	p := New(1, 8)
	for _, s := range []grammar.Symbol{2, 4, 8} {
		p.Set(s, Right)
	}

	for workers := 1; workers <= 5; workers++ {
		s := DirectedCut(NewAdjacencyList(text, workers), p, workers)
		require.Equal(t, CutStats{LR: 8, RL: 9, DistinctLR: 6, DistinctRL: 4}, s)
		require.Equal(t, 17, s.Undirected())
		require.Equal(t, 17, p.CutSize(NewAdjacencyList(text, workers), workers))
	}
}

func TestGreedy_Partitions(t *testing.T) {
	tests := []struct {
		name      string
		text      []grammar.Symbol
		right     []grammar.Symbol
		direction Direction
	}{
		{
			name:      "level one",
			text:      syms(2, 1, 2, 1, 8, 1, 6, 2, 3, 5, 4, 1, 7, 4, 1, 6, 2, 3, 5, 4, 1, 3, 2, 1),
			right:     syms(2, 4, 8),
			direction: RightToLeft,
		},
		{
			name:      "level two",
			text:      syms(13, 12, 6, 10, 5, 11, 7, 11, 6, 10, 5, 11, 3, 9),
			right:     syms(9, 10, 11, 12),
			direction: LeftToRight,
		},
		{
			name:      "level three",
			text:      syms(18, 16, 15, 17, 16, 15, 14),
			right:     syms(15, 18),
			direction: RightToLeft,
		},
		{
			name:      "four symbols",
			text:      syms(21, 20, 16, 19),
			right:     syms(19, 20),
			direction: LeftToRight,
		},
		{
			name:      "single pair",
			text:      syms(23, 22),
			right:     syms(23),
			direction: RightToLeft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for workers := 1; workers <= 4; workers++ {
				p := NewGreedy().Compute(tt.text, workers)

				isRight := make(map[grammar.Symbol]bool)
				for _, s := range tt.right {
					isRight[s] = true
				}
				for _, s := range tt.text {
					want := Left
					if isRight[s] {
						want = Right
					}
					require.Equal(t, want, p.Side(s), "symbol %d workers %d", s, workers)
				}
				require.Equal(t, tt.direction, p.Direction)
			}
		})
	}
}

func TestGreedy_CrossingPairs(t *testing.T) {
	text := syms(13, 12, 6, 10, 5, 11, 7, 11, 6, 10, 5, 11, 3, 9)
	p := NewGreedy().Compute(text, 2)

	var pairs [][2]grammar.Symbol
	for i := 0; i+1 < len(text); i++ {
		if p.Crosses(text[i], text[i+1]) {
			pairs = append(pairs, [2]grammar.Symbol{text[i], text[i+1]})
		}
	}

	require.Equal(t, [][2]grammar.Symbol{
		{13, 12}, {6, 10}, {5, 11}, {7, 11}, {6, 10}, {5, 11}, {3, 9},
	}, pairs)
}

func TestGreedy_CutBounds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		text := randomBlockFree(500, 2+int(seed)*3, seed)
		p := NewGreedy().Compute(text, 3)
		adj := NewAdjacencyList(text, 3)
		s := DirectedCut(adj, p, 3)

		require.GreaterOrEqual(t, 2*s.Undirected(), len(adj), "seed %d", seed)
		chosen := s.LR
		if p.Direction == RightToLeft {
			chosen = s.RL
		}
		require.GreaterOrEqual(t, 4*chosen, len(adj), "seed %d", seed)
	}
}

func TestEnsureNonDegenerate(t *testing.T) {
	t.Run("all left", func(t *testing.T) {
		text := syms(5, 5, 7, 5)
		p := New(5, 7)
		require.True(t, ensureNonDegenerate(text, p, 2))
		require.Equal(t, Left, p.Side(5))
		require.Equal(t, Right, p.Side(7))
	})

	t.Run("all right", func(t *testing.T) {
		text := syms(6, 7, 6)
		p := New(6, 7)
		p.Set(6, Right)
		p.Set(7, Right)
		require.True(t, ensureNonDegenerate(text, p, 1))
		require.Equal(t, Left, p.Side(6))
		require.Equal(t, Right, p.Side(7))
	})

	t.Run("already mixed", func(t *testing.T) {
		p := New(1, 2)
		p.Set(2, Right)
		require.False(t, ensureNonDegenerate(syms(1, 2), p, 1))
	})

	t.Run("single distinct symbol", func(t *testing.T) {
		p := New(4, 4)
		require.False(t, ensureNonDegenerate(syms(4, 4, 4), p, 1))
	})
}

func TestOrient_TieBreak(t *testing.T) {
	// LR: 1->2, 1->3 (two rules); RL: 2->1 twice (one rule)
	text := syms(2, 1, 2, 1, 3)
	adj := NewAdjacencyList(text, 1)

	p := New(1, 3)
	p.Set(2, Right)
	p.Set(3, Right)

	s := orient(p, adj, 1, false)
	require.Equal(t, CutStats{LR: 2, RL: 2, DistinctLR: 2, DistinctRL: 1}, s)
	require.Equal(t, LeftToRight, p.Direction)

	orient(p, adj, 1, true)
	require.Equal(t, RightToLeft, p.Direction)
}

func TestWeightedRandom_Balance(t *testing.T) {
	text := syms(0, 1, 2, 3, 0, 1, 2, 3, 0)
	p := NewWeightedRandom().Compute(text, 1)

	require.Equal(t, Left, p.Side(0))
	require.Equal(t, Right, p.Side(1))
	require.Equal(t, Right, p.Side(2))
	require.Equal(t, Right, p.Side(3))
}

func TestRandom_Deterministic(t *testing.T) {
	text := randomBlockFree(3000, 9000, 3)
	r, err := NewRandom(WithTrials(3), WithSeed(99))
	require.NoError(t, err)
	require.Equal(t, 3, r.Trials())

	base := r.Compute(text, 1)
	for _, workers := range []int{2, 5} {
		p := r.Compute(text, workers)
		require.Equal(t, base.Direction, p.Direction)
		for s := base.Min; s <= base.Max; s++ {
			require.Equal(t, base.Side(s), p.Side(s), "symbol %d", s)
		}
	}

	require.Equal(t, Left, base.Side(base.Min))
	require.Equal(t, Right, base.Side(base.Max))
}

func TestRandom_MoreTrialsNeverWorse(t *testing.T) {
	text := randomBlockFree(400, 30, 11)
	adj := NewAdjacencyList(text, 1)

	one, err := NewRandom(WithSeed(5))
	require.NoError(t, err)
	many, err := NewRandom(WithSeed(5), WithTrials(8))
	require.NoError(t, err)

	// trial 0 of both draws the same bipartition
	require.GreaterOrEqual(t,
		many.Compute(text, 2).CutSize(adj, 2),
		one.Compute(text, 2).CutSize(adj, 2))
}

func TestStrategies_Properties(t *testing.T) {
	strategies := make([]Strategy, 0, 4)
	for _, name := range Names() {
		s, err := ByName(name, WithSeed(42))
		require.NoError(t, err)
		strategies = append(strategies, s)
	}

	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			for seed := uint64(1); seed <= 10; seed++ {
				text := randomBlockFree(200+int(seed)*37, 2+int(seed), seed)
				for _, workers := range []int{1, 3, 8} {
					p := s.Compute(text, workers)

					lo, hi := text[0], text[0]
					seen := map[Class]bool{}
					for _, sym := range text {
						lo, hi = min(lo, sym), max(hi, sym)
						seen[p.Side(sym)] = true
					}
					require.Equal(t, lo, p.Min)
					require.Equal(t, hi, p.Max)
					require.True(t, seen[Left] && seen[Right], "both classes present")

					crossings := 0
					for i := 0; i+1 < len(text); i++ {
						if p.Crosses(text[i], text[i+1]) {
							crossings++
							if i+2 < len(text) {
								require.False(t, p.Crosses(text[i+1], text[i+2]), "overlapping pairs")
							}
						}
					}
					require.Positive(t, crossings)
				}
			}
		})
	}
}

func TestStrategies_SmallInputs(t *testing.T) {
	for _, name := range Names() {
		s, err := ByName(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			p := s.Compute(nil, 2)
			require.NotNil(t, p)

			p = s.Compute(syms(7), 2)
			require.Equal(t, grammar.Symbol(7), p.Min)
			require.Equal(t, grammar.Symbol(7), p.Max)

			p = s.Compute(syms(9, 4), 2)
			require.True(t, p.Crosses(9, 4))
		})
	}
}

func TestByName(t *testing.T) {
	require.Equal(t, []string{"greedy", "local-search", "random", "weighted"}, Names())

	for _, name := range Names() {
		s, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}

	_, err := ByName("kahip")
	require.ErrorIs(t, err, errs.ErrUnknownStrategy)

	_, err = ByName(NameRandom, WithTrials(0))
	require.ErrorIs(t, err, errs.ErrInvalidTrials)

	_, err = ByName(NameGreedy, WithTrials(-1))
	require.ErrorIs(t, err, errs.ErrInvalidTrials)

	_, err = ByName(NameLocalSearch, WithRounds(-1))
	require.ErrorIs(t, err, errs.ErrInvalidConfigValues)

	ls, err := NewLocalSearch(WithRounds(2))
	require.NoError(t, err)
	require.Equal(t, 2, ls.Rounds())
}

func TestSeeded_DrawDependsOnText(t *testing.T) {
	for _, name := range []string{NameRandom, NameLocalSearch} {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name, WithSeed(42))
			require.NoError(t, err)

			long := randomBlockFree(3000, 9000, 21)
			short := long[:2000]

			// same call, same draw
			again := s.Compute(long, 3)
			p := s.Compute(long, 1)
			for sym := p.Min; sym <= p.Max; sym++ {
				require.Equal(t, p.Side(sym), again.Side(sym), "symbol %d", sym)
			}

			// a shorter text (the next level of a run) gets a different draw
			q := s.Compute(short, 1)
			differ := 0
			for sym := max(p.Min, q.Min) + 1; sym < min(p.Max, q.Max); sym++ {
				if p.Side(sym) != q.Side(sym) {
					differ++
				}
			}
			require.Positive(t, differ)
		})
	}
}
