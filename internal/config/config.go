// Package config loads the YAML configuration of the recomp command.
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/arloliu/recomp/coder"
	"github.com/arloliu/recomp/errs"
	"github.com/arloliu/recomp/format"
	"github.com/arloliu/recomp/partition"
	"github.com/arloliu/recomp/recompression"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`    // Recompression settings
	Container ContainerConfig `yaml:"container"` // Persisted grammar settings
	Logging   LoggingConfig   `yaml:"logging"`   // Log output
}

// EngineConfig configures the recompression engine.
type EngineConfig struct {
	Workers  int     `yaml:"workers"`  // 0 selects GOMAXPROCS
	Strategy string  `yaml:"strategy"` // Partition strategy name
	Trials   int     `yaml:"trials"`   // Random partitions drawn per level
	Rounds   int     `yaml:"rounds"`   // Local search flip rounds
	Seed     *uint64 `yaml:"seed"`     // Fixed seed for randomized strategies
	Checks   bool    `yaml:"checks"`   // Verify invariants after every pass
}

// ContainerConfig configures the grammar container.
type ContainerConfig struct {
	Layout      string `yaml:"layout"`      // fixed | packed
	Compression string `yaml:"compression"` // none | zstd | s2 | lz4
	BigEndian   bool   `yaml:"big_endian"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // json | console
	Output string `yaml:"output"` // stdout | stderr | file path
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy: partition.NameGreedy,
			Trials:   1,
			Rounds:   4,
		},
		Container: ContainerConfig{
			Layout:      "packed",
			Compression: "zstd",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults replaces ${VAR} and ${VAR:-default}; unset or empty variables
// take the default, or the empty string without one.
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}

		return parts[2]
	})
}

// Load reads, expands and validates the configuration file at path.
// Fields missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: config file path is required", errs.ErrInvalidConfigValues)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnvWithDefaults(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("%w: engine.workers %d must not be negative", errs.ErrInvalidConfigValues, c.Engine.Workers)
	}
	if !slices.Contains(partition.Names(), c.Engine.Strategy) {
		return fmt.Errorf("%w: engine.strategy %q (available: %v)", errs.ErrInvalidConfigValues, c.Engine.Strategy, partition.Names())
	}
	if c.Engine.Trials < 1 {
		return fmt.Errorf("%w: engine.trials %d must be at least 1", errs.ErrInvalidConfigValues, c.Engine.Trials)
	}
	if c.Engine.Rounds < 0 {
		return fmt.Errorf("%w: engine.rounds %d must not be negative", errs.ErrInvalidConfigValues, c.Engine.Rounds)
	}

	if _, ok := format.ParseLayout(c.Container.Layout); !ok {
		return fmt.Errorf("%w: container.layout %q", errs.ErrInvalidConfigValues, c.Container.Layout)
	}
	if _, ok := format.ParseCompression(c.Container.Compression); !ok {
		return fmt.Errorf("%w: container.compression %q", errs.ErrInvalidConfigValues, c.Container.Compression)
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level %q", errs.ErrInvalidConfigValues, c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("%w: logging.format %q (json or console)", errs.ErrInvalidConfigValues, c.Logging.Format)
	}

	return nil
}

// Strategy builds the configured partition strategy.
func (c *Config) Strategy() (partition.Strategy, error) {
	opts := []partition.Option{
		partition.WithTrials(c.Engine.Trials),
		partition.WithRounds(c.Engine.Rounds),
	}
	if c.Engine.Seed != nil {
		opts = append(opts, partition.WithSeed(*c.Engine.Seed))
	}

	return partition.ByName(c.Engine.Strategy, opts...)
}

// EngineOptions returns the engine options for the configuration, logging to logger.
func (c *Config) EngineOptions(logger zerolog.Logger) ([]recompression.Option, error) {
	strategy, err := c.Strategy()
	if err != nil {
		return nil, err
	}

	opts := []recompression.Option{
		recompression.WithStrategy(strategy),
		recompression.WithLogger(logger),
		recompression.WithInvariantChecks(c.Engine.Checks),
	}
	if c.Engine.Workers > 0 {
		opts = append(opts, recompression.WithWorkers(c.Engine.Workers))
	}

	return opts, nil
}

// CoderOptions returns the container options for the configuration.
func (c *Config) CoderOptions() []coder.Option {
	layout, _ := format.ParseLayout(c.Container.Layout)
	compression, _ := format.ParseCompression(c.Container.Compression)

	opts := []coder.Option{coder.WithLayout(layout), coder.WithCompression(compression)}
	if c.Container.BigEndian {
		opts = append(opts, coder.WithBigEndian())
	}

	return opts
}
