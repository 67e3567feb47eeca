package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/arloliu/recomp"
	"github.com/arloliu/recomp/coder"
	"github.com/arloliu/recomp/grammar"
	"github.com/arloliu/recomp/internal/config"
	"github.com/arloliu/recomp/internal/logging"
	"github.com/arloliu/recomp/recompression"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage error")

type ioStreams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// commonFlags are shared by every command that builds a logger.
type commonFlags struct {
	configPath string
	logLevel   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error, disabled)")
}

// engineFlags override the engine and container sections of the configuration.
type engineFlags struct {
	workers     int
	strategy    string
	layout      string
	compression string
	checks      bool
}

func (e *engineFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&e.workers, "workers", 0, "worker goroutines (0 keeps the configured value)")
	fs.StringVar(&e.strategy, "strategy", "", "partition strategy: greedy, random, weighted, local-search")
	fs.StringVar(&e.layout, "layout", "", "rule layout: fixed or packed")
	fs.StringVar(&e.compression, "compression", "", "payload compression: none, zstd, s2, lz4")
	fs.BoolVar(&e.checks, "checks", false, "verify invariants after every pass")
}

func (e *engineFlags) apply(cfg *config.Config) {
	if e.workers > 0 {
		cfg.Engine.Workers = e.workers
	}
	if e.strategy != "" {
		cfg.Engine.Strategy = e.strategy
	}
	if e.layout != "" {
		cfg.Container.Layout = e.layout
	}
	if e.compression != "" {
		cfg.Container.Compression = e.compression
	}
	if e.checks {
		cfg.Engine.Checks = true
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("recomp "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}

// parseFlags parses args and maps flag errors other than -h to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return errUsage
	}

	return nil
}

func requireFlag(fs *flag.FlagSet, name, value string) error {
	if value == "" {
		fmt.Fprintf(fs.Output(), "flag -%s is required\n", name)
		fs.Usage()

		return errUsage
	}

	return nil
}

// setup loads the configuration, applies overrides and builds a logger tagged with a
// fresh run id.
func setup(common commonFlags, overrides *engineFlags) (*config.Config, zerolog.Logger, io.Closer, error) {
	cfg := config.Default()
	if common.configPath != "" {
		loaded, err := config.Load(common.configPath)
		if err != nil {
			return nil, zerolog.Nop(), nil, err
		}
		cfg = loaded
	}
	if overrides != nil {
		overrides.apply(cfg)
	}
	if common.logLevel != "" {
		cfg.Logging.Level = common.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	return cfg, logging.WithRunID(logger, uuid.NewString()), closer, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}

func runCompress(args []string, streams ioStreams) error {
	fs := newFlagSet("compress", streams.stderr)
	var (
		common    commonFlags
		overrides engineFlags
		in, out   string
	)
	common.register(fs)
	overrides.register(fs)
	fs.StringVar(&in, "in", "", "input file")
	fs.StringVar(&out, "out", "", "container file to write")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", in); err != nil {
		return err
	}
	if err := requireFlag(fs, "out", out); err != nil {
		return err
	}

	cfg, logger, closer, err := setup(common, &overrides)
	if err != nil {
		return err
	}
	defer closer.Close()

	data, err := readInput(in, streams.stdin)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	opts, err := cfg.EngineOptions(logger)
	if err != nil {
		return err
	}
	engine, err := recompression.New(opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	g, err := engine.RecompressBytes(data)
	if err != nil {
		return err
	}

	container, err := coder.Encode(g, cfg.CoderOptions()...)
	if err != nil {
		return err
	}
	if err := writeOutput(out, container, streams.stdout); err != nil {
		return fmt.Errorf("failed to write container: %w", err)
	}

	stats := g.Stats()
	logger.Info().
		Str("input", in).
		Str("output", out).
		Int("input_bytes", len(data)).
		Int("container_bytes", len(container)).
		Int("rules", stats.Rules).
		Int("depth", stats.Depth).
		Str("layout", cfg.Container.Layout).
		Str("compression", cfg.Container.Compression).
		Dur("duration", time.Since(start)).
		Msg("container written")

	return nil
}

func runDecompress(args []string, streams ioStreams) error {
	fs := newFlagSet("decompress", streams.stderr)
	var (
		common  commonFlags
		in, out string
		maxSize uint64
	)
	common.register(fs)
	fs.StringVar(&in, "in", "", "container file")
	fs.StringVar(&out, "out", "", "file to write the derived bytes to")
	fs.Uint64Var(&maxSize, "max-size", 0, "largest derived size in bytes to accept (0 for no extra limit)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", in); err != nil {
		return err
	}
	if err := requireFlag(fs, "out", out); err != nil {
		return err
	}

	_, logger, closer, err := setup(common, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	container, err := readInput(in, streams.stdin)
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	limit := uint64(grammar.MaxTextLen)
	if maxSize > 0 {
		limit = maxSize
	}

	data, err := recomp.DecompressBytesLimit(container, limit)
	if err != nil {
		return err
	}
	if err := writeOutput(out, data, streams.stdout); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info().
		Str("input", in).
		Str("output", out).
		Int("container_bytes", len(container)).
		Int("output_bytes", len(data)).
		Msg("container derived")

	return nil
}

func runVerify(args []string, streams ioStreams) error {
	fs := newFlagSet("verify", streams.stderr)
	var (
		common        commonFlags
		in, grammarIn string
	)
	common.register(fs)
	fs.StringVar(&in, "in", "", "original file")
	fs.StringVar(&grammarIn, "grammar", "", "container file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", in); err != nil {
		return err
	}
	if err := requireFlag(fs, "grammar", grammarIn); err != nil {
		return err
	}

	_, logger, closer, err := setup(common, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	data, err := readInput(in, streams.stdin)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	container, err := readInput(grammarIn, streams.stdin)
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	g, err := coder.Decode(container)
	if err != nil {
		return err
	}
	if err := recomp.Verify(g, data); err != nil {
		logger.Error().Err(err).Str("input", in).Str("grammar", grammarIn).Msg("verification failed")
		return err
	}

	logger.Info().Str("input", in).Str("grammar", grammarIn).Uint64("text_len", g.Stats().TextLen).Msg("verified")
	fmt.Fprintln(streams.stdout, "OK")

	return nil
}

func runStats(args []string, streams ioStreams) error {
	fs := newFlagSet("stats", streams.stderr)
	var (
		common commonFlags
		in     string
	)
	common.register(fs)
	fs.StringVar(&in, "in", "", "container file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", in); err != nil {
		return err
	}

	_, _, closer, err := setup(common, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	container, err := readInput(in, streams.stdin)
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	dec, err := coder.NewDecoder(container)
	if err != nil {
		return err
	}
	g, err := dec.Decode()
	if err != nil {
		return err
	}

	h := dec.Header()
	stats := g.Stats()
	byteOrder := "little"
	if h.Flag.IsBigEndian() {
		byteOrder = "big"
	}

	tw := tabwriter.NewWriter(streams.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "container bytes:\t%d\n", len(container))
	fmt.Fprintf(tw, "layout:\t%s\n", h.Flag.LayoutType())
	fmt.Fprintf(tw, "compression:\t%s\n", h.Flag.CompressionType())
	fmt.Fprintf(tw, "byte order:\t%s\n", byteOrder)
	fmt.Fprintf(tw, "payload bytes:\t%d\n", h.PayloadSize)
	fmt.Fprintf(tw, "terminals:\t%d\n", stats.Terminals)
	fmt.Fprintf(tw, "rules:\t%d\n", stats.Rules)
	fmt.Fprintf(tw, "block rules:\t%d\n", stats.Blocks)
	fmt.Fprintf(tw, "pair rules:\t%d\n", stats.Pairs)
	fmt.Fprintf(tw, "root:\t%d\n", g.Root)
	fmt.Fprintf(tw, "text length:\t%d\n", stats.TextLen)
	fmt.Fprintf(tw, "depth:\t%d\n", stats.Depth)

	return tw.Flush()
}
