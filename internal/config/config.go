// Package config turns command-line flags, SQFREE_* environment variables
// and an optional YAML file into a validated AppConfig.
//
// Priority, highest first: flags, environment, config file, defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"strings"
	"time"

	apperrors "github.com/agbru/sqfree/internal/errors"
	"github.com/agbru/sqfree/internal/numtheory"
	"github.com/agbru/sqfree/internal/orchestration"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "SQFREE_"

// Defaults of the sweep driver.
const (
	DefaultBound   = "10^15"
	DefaultCount   = 11
	DefaultStep    = 10
	DefaultTrials  = 100_000
	DefaultTimeout = 30 * time.Minute
)

// AppConfig aggregates every run parameter of the application.
type AppConfig struct {
	// N is the first upper bound of the sweep.
	N *big.Int
	// Count is the number of sweep points.
	Count int
	// Step is the distance between consecutive sweep points.
	Step int64
	// Trials is the number of samples M per point.
	Trials int
	// Workers is the pool size W.
	Workers int

	// Engine tuning.
	Rounds         int
	RhoIterations  int
	RhoConstantMax int64
	TrialDivision  uint64

	// Seed fixes the random base seed; 0 draws one from the OS.
	Seed uint64
	// CacheShards is the shard count of each memo table; 0 sizes it from
	// the worker count.
	CacheShards int
	// ProgressBatch is the number of trials between progress updates.
	ProgressBatch int

	Timeout     time.Duration
	ConfigFile  string
	OutputFile  string
	MetricsAddr string

	Quiet       bool
	Verbose     bool
	TUI         bool
	NoColor     bool
	ShowVersion bool
	Interactive bool
	// Completion names a shell to print a completion script for.
	Completion string

	// bound is the textual form of N until resolve parses it.
	bound string
}

// ParseConfig parses args (without the program name) into an AppConfig.
//
// Flag syntax errors and invalid values are returned as
// apperrors.ConfigError. flag.ErrHelp is returned unchanged when -h or
// --help is given; usage has then already been written to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	cfg := AppConfig{}

	fs.StringVar(&cfg.bound, "n", DefaultBound, "First upper bound N (decimal, 10^k or 1eK).")
	fs.IntVar(&cfg.Count, "count", DefaultCount, "Number of sweep points.")
	fs.Int64Var(&cfg.Step, "step", DefaultStep, "Distance between sweep points.")
	fs.IntVar(&cfg.Trials, "trials", DefaultTrials, "Samples per point.")
	fs.IntVar(&cfg.Trials, "m", DefaultTrials, "Samples per point (shorthand).")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Number of worker goroutines.")
	fs.IntVar(&cfg.Workers, "w", runtime.NumCPU(), "Number of worker goroutines (shorthand).")
	fs.IntVar(&cfg.Rounds, "rounds", numtheory.DefaultPrimalityRounds, "Miller-Rabin rounds per primality test.")
	fs.IntVar(&cfg.RhoIterations, "rho-iterations", numtheory.DefaultMaxRhoIterations, "Pollard-rho iteration budget per integer.")
	fs.Int64Var(&cfg.RhoConstantMax, "rho-c-max", numtheory.DefaultRhoConstantMax, "Largest Pollard-rho increment constant.")
	fs.Uint64Var(&cfg.TrialDivision, "trial-division", numtheory.DefaultTrialDivisionLimit, "Largest prime removed by trial division (0 disables).")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Base random seed (0 = random).")
	fs.IntVar(&cfg.CacheShards, "cache-shards", 0, "Shards per memo table (0 = automatic).")
	fs.IntVar(&cfg.ProgressBatch, "progress-batch", orchestration.DefaultProgressBatch, "Trials between progress updates.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum duration of the whole sweep.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write results as CSV to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Write results as CSV to this file (shorthand).")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the CSV rows.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Print only the CSV rows (shorthand).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log debug output and cache statistics.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log debug output and cache statistics (shorthand).")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show the interactive dashboard.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print the version and exit.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start an interactive session.")
	fs.BoolVar(&cfg.Interactive, "i", false, "Start an interactive session (shorthand).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script (bash, zsh, fish).")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.ShowVersion || cfg.Completion != "" {
		return cfg, nil
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return cfg, err
		}
		applyFile(&cfg, fc, fs)
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.resolve(); err != nil {
		return cfg, err
	}
	cfg = ApplyAdaptiveDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *AppConfig) resolve() error {
	n, err := ParseBound(c.bound)
	if err != nil {
		return apperrors.NewConfigError("invalid bound %q: %v", c.bound, err)
	}
	c.N = n
	return nil
}

// Validate checks every field and reports the first invalid one as an
// apperrors.ConfigError.
func (c AppConfig) Validate() error {
	switch {
	case c.N == nil || c.N.Sign() < 1:
		return apperrors.NewConfigError("n must be at least 1")
	case c.Count < 1:
		return apperrors.NewConfigError("count must be at least 1, got %d", c.Count)
	case c.Step < 0:
		return apperrors.NewConfigError("step must be non-negative, got %d", c.Step)
	case c.Trials < 0:
		return apperrors.NewConfigError("trials must be non-negative, got %d", c.Trials)
	case c.Workers < 1:
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	case c.Rounds < 1:
		return apperrors.NewConfigError("rounds must be at least 1, got %d", c.Rounds)
	case c.RhoIterations < 1:
		return apperrors.NewConfigError("rho-iterations must be at least 1, got %d", c.RhoIterations)
	case c.RhoConstantMax < 1:
		return apperrors.NewConfigError("rho-c-max must be at least 1, got %d", c.RhoConstantMax)
	case c.TrialDivision > numtheory.MaxTrialDivisionLimit:
		return apperrors.NewConfigError("trial-division must be at most %d, got %d", numtheory.MaxTrialDivisionLimit, c.TrialDivision)
	case c.CacheShards < 0:
		return apperrors.NewConfigError("cache-shards must be non-negative, got %d", c.CacheShards)
	case c.ProgressBatch < 0:
		return apperrors.NewConfigError("progress-batch must be non-negative, got %d", c.ProgressBatch)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	case c.TUI && c.Quiet:
		return apperrors.NewConfigError("--tui and --quiet are mutually exclusive")
	case c.TUI && c.Interactive:
		return apperrors.NewConfigError("--tui and --interactive are mutually exclusive")
	}
	return nil
}

// ToEngineOptions returns the number-theory engine options.
func (c AppConfig) ToEngineOptions() numtheory.Options {
	return numtheory.Options{
		PrimalityRounds:    c.Rounds,
		MaxRhoIterations:   c.RhoIterations,
		RhoConstantMax:     c.RhoConstantMax,
		TrialDivisionLimit: c.TrialDivision,
	}
}

// ToCoordinatorConfig returns the worker pool configuration.
func (c AppConfig) ToCoordinatorConfig() orchestration.Config {
	return orchestration.Config{
		Workers:       c.Workers,
		Engine:        c.ToEngineOptions(),
		Seed:          c.Seed,
		ProgressBatch: c.ProgressBatch,
		CacheShards:   c.CacheShards,
	}
}

// ToSweepRequest returns the sweep described by the configuration.
func (c AppConfig) ToSweepRequest() orchestration.SweepRequest {
	return orchestration.SweepRequest{
		Start:  new(big.Int).Set(c.N),
		Count:  c.Count,
		Step:   big.NewInt(c.Step),
		Trials: c.Trials,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Bound parsing
// ─────────────────────────────────────────────────────────────────────────────

// maxExponent bounds k in 10^k and 1eK so that a typo cannot allocate an
// enormous integer.
const maxExponent = 10_000

// ParseBound parses an upper bound written as a decimal integer, as b^k or
// as mEk (m·10^k). Underscores between digits are ignored.
func ParseBound(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return nil, errors.New("empty value")
	}

	if base, exp, ok := strings.Cut(s, "^"); ok {
		b, err := parseDecimal(base)
		if err != nil {
			return nil, err
		}
		k, err := parseExponent(exp)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Exp(b, big.NewInt(k), nil), nil
	}

	if mant, exp, ok := strings.Cut(strings.ToLower(s), "e"); ok {
		m, err := parseDecimal(mant)
		if err != nil {
			return nil, err
		}
		k, err := parseExponent(exp)
		if err != nil {
			return nil, err
		}
		p := new(big.Int).Exp(big.NewInt(10), big.NewInt(k), nil)
		return p.Mul(p, m), nil
	}

	return parseDecimal(s)
}

func parseDecimal(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a decimal integer", s)
	}
	return n, nil
}

func parseExponent(s string) (int64, error) {
	k, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if k.Sign() < 0 || k.Cmp(big.NewInt(maxExponent)) > 0 {
		return 0, fmt.Errorf("exponent %s outside [0, %d]", k, maxExponent)
	}
	return k.Int64(), nil
}
