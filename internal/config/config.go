// Package config resolves harness configuration from a config file,
// environment variables, and defaults.
//
// The resolved Config struct is passed explicitly into the registry and
// executor constructors; nothing outside this package reads viper state.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every externally-configured knob of the harness.
type Config struct {
	// DatasetPath is the CSV dataset every backend reads. The dataset is
	// treated as read-only and is safely shared across iterations and
	// subprocesses.
	DatasetPath string

	// ResultsDir is where exported records and the run log land.
	ResultsDir string

	// Runs is the default number of measured iterations.
	Runs int

	// WarmupRuns is the default number of untimed warmup iterations in
	// warm mode.
	WarmupRuns int

	// SubprocessTimeout bounds each cold-mode child process. A child
	// exceeding it is forcibly terminated and the iteration recorded as
	// failed.
	SubprocessTimeout time.Duration
}

// Load reads configuration. cfgFile overrides the default search
// (olapbench.yaml in the working directory); OLAPBENCH_* environment
// variables override file values.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("olapbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("OLAPBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dataset_path", "datasets/ecommerce.csv")
	v.SetDefault("results_dir", "results")
	v.SetDefault("runs", 10)
	v.SetDefault("warmup_runs", 3)
	v.SetDefault("subprocess_timeout", "5m")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("subprocess_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid subprocess_timeout: %w", err)
	}

	cfg := Config{
		DatasetPath:       v.GetString("dataset_path"),
		ResultsDir:        v.GetString("results_dir"),
		Runs:              v.GetInt("runs"),
		WarmupRuns:        v.GetInt("warmup_runs"),
		SubprocessTimeout: timeout,
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset_path must not be empty")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must not be empty")
	}
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.WarmupRuns < 0 {
		return fmt.Errorf("warmup_runs must not be negative, got %d", c.WarmupRuns)
	}
	if c.SubprocessTimeout <= 0 {
		return fmt.Errorf("subprocess_timeout must be positive, got %v", c.SubprocessTimeout)
	}
	return nil
}
