// Package config enables config file parsing.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/log"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/paymo-xmr/vtdlog/pkg/vtdlog"
)

// EnvPrefix is the prefix of environment variables overriding the configuration.
// `__` is used as a hierarchy delimiter, e.g. VTDLOG_COMMITMENT__HARDNESS.
const EnvPrefix = "VTDLOG_"

// Config contains the CLI configuration.
type Config struct {
	Commitment *CommitmentConfig `koanf:"commitment"`
	Solver     *SolverConfig     `koanf:"solver"`
	Log        *LogConfig        `koanf:"log"`
}

// Validate performs config validation.
func (cfg *Config) Validate() error {
	if cfg.Commitment != nil {
		if err := cfg.Commitment.Validate(); err != nil {
			return fmt.Errorf("commitment: %w", err)
		}
	}
	if cfg.Solver != nil {
		if err := cfg.Solver.Validate(); err != nil {
			return fmt.Errorf("solver: %w", err)
		}
	}
	if cfg.Log != nil {
		if err := cfg.Log.Validate(); err != nil {
			return fmt.Errorf("log: %w", err)
		}
	}
	return nil
}

// CommitmentConfig sets the shape and hardness of new commitments.
type CommitmentConfig struct {
	// Curve is the group of the committed scalar, "edwards25519" or "secp256k1".
	Curve       string `koanf:"curve"`
	Shares      int    `koanf:"shares"`
	Threshold   int    `koanf:"threshold"`
	Hardness    uint64 `koanf:"hardness"`
	ModulusBits int    `koanf:"modulus_bits"`
}

// Validate validates the commitment configuration.
func (cfg *CommitmentConfig) Validate() error {
	group, err := cfg.Group()
	if err != nil {
		return err
	}
	if cfg.Hardness < 1 {
		return fmt.Errorf("hardness must be at least 1")
	}
	return cfg.Parameters().ValidateFor(group)
}

// Group returns the configured curve.
func (cfg *CommitmentConfig) Group() (curve.Curve, error) {
	group := curve.FromName(cfg.Curve)
	if group == nil {
		return nil, fmt.Errorf("unsupported curve %q", cfg.Curve)
	}
	return group, nil
}

// Parameters returns the commitment shape.
func (cfg *CommitmentConfig) Parameters() vtdlog.Parameters {
	return vtdlog.Parameters{
		Shares:      cfg.Shares,
		Threshold:   cfg.Threshold,
		ModulusBits: cfg.ModulusBits,
	}
}

// SolverConfig sets how commitments are solved.
type SolverConfig struct {
	// Parallel solves every share concurrently instead of stopping at the completing one.
	Parallel bool `koanf:"parallel"`
	// Workers bounds the number of goroutines, for puzzle generation and parallel solving.
	// 0 means one per CPU.
	Workers int `koanf:"workers"`
}

// Validate validates the solver configuration.
func (cfg *SolverConfig) Validate() error {
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// LogConfig contains the logging configuration.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Validate validates the logging configuration.
func (cfg *LogConfig) Validate() error {
	var format log.Format
	if err := format.Set(cfg.Format); err != nil {
		return err
	}
	var level log.Level
	return level.Set(cfg.Level)
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"commitment.curve":        curve.Edwards25519{}.Name(),
		"commitment.shares":       params.Shares,
		"commitment.threshold":    params.Threshold,
		"commitment.hardness":     1_000_000,
		"commitment.modulus_bits": params.BitsTimeLockModulus,
		"solver.parallel":         false,
		"solver.workers":          0,
		"log.format":              "console",
		"log.level":               "info",
	}
}

// InitConfig loads the defaults, then the yaml file f if it is not empty,
// then the environment, and validates the result.
func InitConfig(f string) (*Config, error) {
	var config Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, err
	}

	// Load configuration from the yaml config.
	if f != "" {
		if err := k.Load(file.Provider(f), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Load environment variables and merge into the loaded config.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// `__` is used as a hierarchy delimiter.
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	// Unmarshal into config.
	if err := k.Unmarshal("", &config); err != nil {
		return nil, err
	}

	// Validate config.
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
