package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/sqfree/internal/errors"
)

// FileConfig is the YAML configuration file. Keys mirror the long flag
// names; absent keys leave the corresponding setting untouched.
type FileConfig struct {
	N              *string `yaml:"n"`
	Count          *int    `yaml:"count"`
	Step           *int64  `yaml:"step"`
	Trials         *int    `yaml:"trials"`
	Workers        *int    `yaml:"workers"`
	Rounds         *int    `yaml:"rounds"`
	RhoIterations  *int    `yaml:"rho-iterations"`
	RhoConstantMax *int64  `yaml:"rho-c-max"`
	TrialDivision  *uint64 `yaml:"trial-division"`
	Seed           *uint64 `yaml:"seed"`
	CacheShards    *int    `yaml:"cache-shards"`
	ProgressBatch  *int    `yaml:"progress-batch"`
	Timeout        *string `yaml:"timeout"`
	Output         *string `yaml:"output"`
	MetricsAddr    *string `yaml:"metrics-addr"`
	Quiet          *bool   `yaml:"quiet"`
	Verbose        *bool   `yaml:"verbose"`
	TUI            *bool   `yaml:"tui"`
	NoColor        *bool   `yaml:"no-color"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys and
// malformed durations are reported as apperrors.ConfigError.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return DecodeFile(data)
}

// DecodeFile decodes YAML configuration data.
func DecodeFile(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing config file: %v", err)
	}
	if fc.Timeout != nil {
		if _, err := time.ParseDuration(*fc.Timeout); err != nil {
			return FileConfig{}, apperrors.NewConfigError("config file: invalid timeout %q", *fc.Timeout)
		}
	}
	return fc, nil
}

// applyFile copies every present file setting whose flag was not given.
func applyFile(c *AppConfig, fc FileConfig, fs *flag.FlagSet) {
	set := func(flags ...string) bool { return !isFlagSetAny(fs, flags...) }

	if fc.N != nil && set("n") {
		c.bound = *fc.N
	}
	if fc.Count != nil && set("count") {
		c.Count = *fc.Count
	}
	if fc.Step != nil && set("step") {
		c.Step = *fc.Step
	}
	if fc.Trials != nil && set("trials", "m") {
		c.Trials = *fc.Trials
	}
	if fc.Workers != nil && set("workers", "w") {
		c.Workers = *fc.Workers
	}
	if fc.Rounds != nil && set("rounds") {
		c.Rounds = *fc.Rounds
	}
	if fc.RhoIterations != nil && set("rho-iterations") {
		c.RhoIterations = *fc.RhoIterations
	}
	if fc.RhoConstantMax != nil && set("rho-c-max") {
		c.RhoConstantMax = *fc.RhoConstantMax
	}
	if fc.TrialDivision != nil && set("trial-division") {
		c.TrialDivision = *fc.TrialDivision
	}
	if fc.Seed != nil && set("seed") {
		c.Seed = *fc.Seed
	}
	if fc.CacheShards != nil && set("cache-shards") {
		c.CacheShards = *fc.CacheShards
	}
	if fc.ProgressBatch != nil && set("progress-batch") {
		c.ProgressBatch = *fc.ProgressBatch
	}
	if fc.Timeout != nil && set("timeout") {
		c.Timeout, _ = time.ParseDuration(*fc.Timeout)
	}
	if fc.Output != nil && set("output", "o") {
		c.OutputFile = *fc.Output
	}
	if fc.MetricsAddr != nil && set("metrics-addr") {
		c.MetricsAddr = *fc.MetricsAddr
	}
	if fc.Quiet != nil && set("quiet", "q") {
		c.Quiet = *fc.Quiet
	}
	if fc.Verbose != nil && set("verbose", "v") {
		c.Verbose = *fc.Verbose
	}
	if fc.TUI != nil && set("tui") {
		c.TUI = *fc.TUI
	}
	if fc.NoColor != nil && set("no-color") {
		c.NoColor = *fc.NoColor
	}
}
