package recompression

import (
	"fmt"
	"slices"
	"time"

	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/options"
	"github.com/arloliu/recomp/internal/parallel"
	"github.com/arloliu/recomp/partition"
	"github.com/rs/zerolog"
)

// ByteAlphabetSize is the alphabet size used for byte input.
const ByteAlphabetSize = 256

// Recompressor computes the RLSLP of a text.
type Recompressor interface {
	// Recompress builds the grammar of input, whose symbols must all be smaller than
	// alphabetSize.
	Recompress(input []grammar.Symbol, alphabetSize int) (*grammar.Grammar, error)
}

// Engine runs recompression with a fixed worker count and partition strategy.
//
// An Engine holds no per-run state and may be used by several goroutines at once,
// provided its strategy is safe for concurrent use (all strategies of the partition
// package are).
type Engine struct {
	workers  int
	strategy partition.Strategy
	logger   zerolog.Logger
	checks   bool
	observer func(PassStats)
}

var _ Recompressor = (*Engine)(nil)

// New creates an Engine.
//
// Parameters:
//   - opts: WithWorkers, WithStrategy, WithLogger, WithInvariantChecks, WithLevelObserver
//
// Returns:
//   - *Engine: The configured engine
//   - error: ErrInvalidWorkerCount or ErrNilStrategy for invalid options
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		workers:  defaultWorkers(),
		strategy: partition.NewGreedy(),
		logger:   zerolog.Nop(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Workers returns the configured worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// Strategy returns the configured partition strategy.
func (e *Engine) Strategy() partition.Strategy {
	return e.strategy
}

// Recompress implements Recompressor.
//
// The input is validated before any work starts: ErrAlphabetTooSmall is returned when
// alphabetSize is less than one or not larger than every input symbol. The input slice is
// not modified. An empty input yields the empty grammar.
func (e *Engine) Recompress(input []grammar.Symbol, alphabetSize int) (*grammar.Grammar, error) {
	g, _, err := e.run(input, alphabetSize, false)
	return g, err
}

// RecompressStats is like Recompress and additionally returns the statistics of every pass.
func (e *Engine) RecompressStats(input []grammar.Symbol, alphabetSize int) (*grammar.Grammar, []PassStats, error) {
	return e.run(input, alphabetSize, true)
}

// RecompressBytes recompresses a byte string over the alphabet [0, 256).
func (e *Engine) RecompressBytes(data []byte) (*grammar.Grammar, error) {
	input := make([]grammar.Symbol, len(data))
	parallel.For(e.workers, len(data), func(_ int, r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			input[i] = grammar.Symbol(data[i])
		}
	})

	return e.Recompress(input, ByteAlphabetSize)
}

func (e *Engine) validate(input []grammar.Symbol, alphabetSize int) error {
	if alphabetSize < 1 {
		return fmt.Errorf("%w: alphabet size %d", errs.ErrAlphabetTooSmall, alphabetSize)
	}
	if uint64(alphabetSize) > uint64(grammar.MaxSymbol)+1 {
		return fmt.Errorf("%w: alphabet size %d", errs.ErrSymbolSpaceExhausted, alphabetSize)
	}
	if len(input) == 0 {
		return nil
	}

	// sequential scan: nothing runs in parallel before the input is accepted
	hi := slices.Max(input)
	if uint64(hi) >= uint64(alphabetSize) {
		return fmt.Errorf("%w: symbol %d with alphabet size %d", errs.ErrAlphabetTooSmall, hi, alphabetSize)
	}

	return nil
}

func (e *Engine) run(input []grammar.Symbol, alphabetSize int, collect bool) (*grammar.Grammar, []PassStats, error) {
	if err := e.validate(input, alphabetSize); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	g := grammar.New(alphabetSize)
	if len(input) == 0 {
		e.logger.Info().Int("input_len", 0).Msg("recompression finished: empty input")
		return g, nil, nil
	}

	seq := newSequence(input, e.workers)
	defer seq.release()

	var passes []PassStats
	record := func(s PassStats) {
		e.logger.Debug().EmbedObject(s).Msg("pass finished")
		if e.observer != nil {
			e.observer(s)
		}
		if collect {
			passes = append(passes, s)
		}
	}

	bounds := collect || e.observer != nil || e.logger.GetLevel() <= zerolog.DebugLevel
	level := 0
	for seq.Len() > 1 {
		level++

		begin := time.Now()
		s := e.passStats(level, PassBlock, seq, bounds)
		rules, occ, err := e.bcomp(seq, g)
		if err != nil {
			return nil, nil, fmt.Errorf("level %d block compression: %w", level, err)
		}
		s.Rules, s.Occurrences, s.OutputLen, s.Duration = rules, occ, seq.Len(), time.Since(begin)
		record(s)

		if seq.Len() <= 1 {
			break
		}

		begin = time.Now()
		s = e.passStats(level, PassPair, seq, bounds)
		p, rules, occ, err := e.pcomp(seq, g)
		if err != nil {
			return nil, nil, fmt.Errorf("level %d pair compression: %w", level, err)
		}
		s.Rules, s.Occurrences, s.OutputLen, s.Duration = rules, occ, seq.Len(), time.Since(begin)
		s.Direction = p.Direction
		record(s)

		if e.checks && occ == 0 {
			panic(fmt.Sprintf("recompression: level %d pair pass made no progress on %d symbols", level, seq.Len()))
		}
	}

	if err := g.SetRoot(seq.text[0]); err != nil {
		return nil, nil, err
	}
	if e.checks {
		e.assertGrammar(g, input)
	}

	e.logger.Info().
		Int("input_len", len(input)).
		Int("levels", level).
		Int("rules", g.Size()).
		Int("blocks", g.Blocks).
		Int("workers", e.workers).
		Str("strategy", e.strategy.Name()).
		Dur("duration", time.Since(start)).
		Msg("recompression finished")

	return g, passes, nil
}

func (e *Engine) passStats(level int, pass Pass, seq *sequence, bounds bool) PassStats {
	s := PassStats{Level: level, Pass: pass, InputLen: seq.Len()}
	if bounds {
		s.AlphabetMin, s.AlphabetMax = parallel.MinMax(seq.text, e.workers)
	}

	return s
}
