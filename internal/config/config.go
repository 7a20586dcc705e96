// Package config loads the configuration of the goMMFF command line tool
// from a YAML file and GOMMFF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rmera/gommff/internal/logging"
)

// envPrefix is the prefix of the environment variables, so that
// "search.trials" is read from GOMMFF_SEARCH_TRIALS.
const envPrefix = "GOMMFF"

// Config is the whole configuration.
type Config struct {
	Log        logging.Config   `mapstructure:"log"`
	Duplicates DuplicatesConfig `mapstructure:"duplicates"`
	Minimizer  MinimizerConfig  `mapstructure:"minimizer"`
	Search     SearchConfig     `mapstructure:"search"`
	Scan       ScanConfig       `mapstructure:"scan"`
}

// DuplicatesConfig are the tolerances of the conformer duplicate checker.
type DuplicatesConfig struct {
	EnergyTol float64 `mapstructure:"energy_tol"`
	AngleTol  float64 `mapstructure:"angle_tol"`
}

type MinimizerConfig struct {
	GradTol float64 `mapstructure:"grad_tol"`
	MaxIter int     `mapstructure:"max_iter"`
	Workers int     `mapstructure:"workers"`
}

// SearchConfig controls the conformer search. Optimizer is "mayfly" or "random";
// Iterations is the number of iterations (mayfly) or samples (random) per trial.
type SearchConfig struct {
	Trials     int    `mapstructure:"trials"`
	Optimizer  string `mapstructure:"optimizer"`
	Iterations int    `mapstructure:"iterations"`
	Population int    `mapstructure:"population"`
	Seed       int64  `mapstructure:"seed"`
}

type ScanConfig struct {
	Steps int `mapstructure:"steps"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", logging.LevelInfo)
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("duplicates.energy_tol", 0.05)
	v.SetDefault("duplicates.angle_tol", 0.017)
	v.SetDefault("minimizer.grad_tol", 1e-3)
	v.SetDefault("minimizer.max_iter", 2000)
	v.SetDefault("minimizer.workers", 1)
	v.SetDefault("search.trials", 20)
	v.SetDefault("search.optimizer", "mayfly")
	v.SetDefault("search.iterations", 30)
	v.SetDefault("search.population", 20)
	v.SetDefault("search.seed", 1)
	v.SetDefault("scan.steps", 36)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// Default returns the default configuration.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path, if path is not empty, and overrides it
// with the environment. Unset values take their defaults.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the values make sense.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Duplicates.EnergyTol <= 0 || c.Duplicates.AngleTol <= 0 {
		errs = append(errs, errors.New("duplicates: tolerances must be positive"))
	}
	if c.Minimizer.GradTol <= 0 {
		errs = append(errs, errors.New("minimizer.grad_tol must be positive"))
	}
	if c.Minimizer.MaxIter < 1 {
		errs = append(errs, errors.New("minimizer.max_iter must be at least 1"))
	}
	if c.Search.Trials < 1 {
		errs = append(errs, errors.New("search.trials must be at least 1"))
	}
	switch c.Search.Optimizer {
	case "mayfly":
		if c.Search.Population < 20 {
			errs = append(errs, errors.New("search.population must be at least 20 for mayfly"))
		}
	case "random":
	default:
		errs = append(errs, fmt.Errorf("search.optimizer: unknown optimizer %q", c.Search.Optimizer))
	}
	if c.Search.Iterations < 1 {
		errs = append(errs, errors.New("search.iterations must be at least 1"))
	}
	if c.Scan.Steps < 2 {
		errs = append(errs, errors.New("scan.steps must be at least 2"))
	}
	return errors.Join(errs...)
}
