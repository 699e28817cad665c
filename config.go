package mapstress

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Test names.
const (
	TestInsert     = "ins"
	TestContention = "con"
	TestDelete     = "del"
	TestMixed      = "mix"
)

// DefaultTolerance scales the out-of-order bound of the mixed test.
const DefaultTolerance = 0.0001

// Config describes one run.
type Config struct {
	// Test is one of ins, con, del, mix.
	Test string `yaml:"test"`
	// Table names the map implementation under test.
	Table string `yaml:"table"`

	// Elements is the key count n.
	Elements int `yaml:"n"`
	// Workers is the crew size p.
	Workers int `yaml:"p"`
	// Capacity is handed to Table.Rebuild. Defaults to n, or to the window
	// size for the delete test.
	Capacity int `yaml:"cap"`
	// Iterations of the timed stages.
	Iterations int `yaml:"iterations"`
	// BlockSize is the number of indices claimed per cursor fetch.
	BlockSize int `yaml:"block_size"`

	// WindowSize is the number of live keys the delete test keeps.
	// Defaults to n/100.
	WindowSize int `yaml:"window_size"`

	// WritePercent is the mutation probability of the mixed stream.
	WritePercent float64 `yaml:"write_percent"`
	// Stream is the event count of the mixed test. Defaults to n.
	Stream int `yaml:"stream"`
	// Tolerance scales the out-of-order bound of the mixed test.
	Tolerance float64 `yaml:"tolerance"`
	// UpdateInPlace turns mutations of live keys into updates.
	UpdateInPlace bool `yaml:"update_in_place"`

	// Skew is the Zipf parameter of the contention test. Zero means
	// uniform.
	Skew float64 `yaml:"skew"`
	// MixSkew is the Zipf parameter of the mixed stream's key selection.
	// Zero, the default, means uniform.
	MixSkew float64 `yaml:"mix_skew"`
	// KeyFile supplies the contention keys instead of the Zipf generator.
	KeyFile string `yaml:"key_file"`

	// Seed of the mixed stream; iteration i uses Seed+i.
	Seed uint64 `yaml:"seed"`

	// Pin binds every worker to a processing unit.
	Pin bool `yaml:"pin"`
	// CPUs restricts pinning to these processing units.
	CPUs []int `yaml:"cpus"`

	Report ReportConfig `yaml:"report"`
}

// ReportConfig selects the result sinks of the command line tool.
type ReportConfig struct {
	// Format is table or jsonl.
	Format string `yaml:"format"`
	// Out is the output file; empty means stdout.
	Out string `yaml:"out"`
	// SQLite additionally stores every result in this database.
	SQLite string `yaml:"sqlite"`
}

// DefaultConfig returns the defaults of the command line tool.
func DefaultConfig() Config {
	return Config{
		Test:         TestInsert,
		Table:        "pb",
		Elements:     10_000_000,
		Workers:      4,
		Iterations:   5,
		BlockSize:    DefaultBlockSize,
		WritePercent: 0.1,
		Tolerance:    DefaultTolerance,
		Skew:         0.99,
		Seed:         1,
		Report:       ReportConfig{Format: "table"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("mapstress: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("mapstress: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv overrides cfg from MAPSTRESS_* environment variables.
// Malformed numbers are ignored.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("MAPSTRESS_TABLE"); v != "" {
		cfg.Table = v
	}
	if v := os.Getenv("MAPSTRESS_P"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Workers = p
		}
	}
	if v := os.Getenv("MAPSTRESS_PIN"); v != "" {
		cfg.Pin = v == "true" || v == "1"
	}
}

// ApplyDefaults fills the derived fields left at zero.
func (c *Config) ApplyDefaults() {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Iterations == 0 {
		c.Iterations = 1
	}
	if c.WindowSize == 0 {
		c.WindowSize = max(c.Elements/100, 1)
	}
	if c.Stream == 0 {
		c.Stream = c.Elements
	}
	if c.Capacity == 0 {
		if c.Test == TestDelete {
			c.Capacity = c.WindowSize
		} else {
			c.Capacity = c.Elements
		}
	}
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	switch {
	case c.Elements <= 0:
		return &ConfigError{"n", "must be positive"}
	case c.Workers <= 0:
		return &ConfigError{"p", "must be positive"}
	case c.Iterations <= 0:
		return &ConfigError{"iterations", "must be positive"}
	case c.BlockSize <= 0:
		return &ConfigError{"block_size", "must be positive"}
	case c.Capacity < 0:
		return &ConfigError{"cap", "must not be negative"}
	case c.WindowSize <= 0:
		return &ConfigError{"window_size", "must be positive"}
	case c.Stream <= 0:
		return &ConfigError{"stream", "must be positive"}
	case !(c.WritePercent >= 0 && c.WritePercent <= 1):
		return &ConfigError{"write_percent", "must be within [0, 1]"}
	case !(c.Tolerance >= 0):
		return &ConfigError{"tolerance", "must not be negative"}
	case !(c.Skew >= 0):
		return &ConfigError{"skew", "must not be negative"}
	case c.Skew == 1:
		return &ConfigError{"skew", "1 is not supported, use a value just below or above"}
	case !(c.MixSkew >= 0):
		return &ConfigError{"mix_skew", "must not be negative"}
	case c.MixSkew == 1:
		return &ConfigError{"mix_skew", "1 is not supported, use a value just below or above"}
	}
	for _, cpu := range c.CPUs {
		if cpu < 0 {
			return &ConfigError{"cpus", fmt.Sprintf("negative processing unit %d", cpu)}
		}
	}
	return nil
}

// OutOfOrderBound is the number of out-of-order failures tolerated by the
// mixed test: Tolerance × Stream × (Workers−1). A single worker tolerates
// none.
func (c *Config) OutOfOrderBound() uint64 {
	return uint64(c.Tolerance * float64(c.Stream) * float64(c.Workers-1))
}
