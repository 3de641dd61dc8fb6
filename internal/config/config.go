// Package config resolves runtime configuration for the optimizer.
// Precedence: CLI flags > YAML config file > environment variables > defaults.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config aggregates the tunable knobs of a run. The genetic-search section
// maps one-to-one onto engine.Params.
type Config struct {
	PopulationSize           int     `yaml:"population_size" env:"SHAPEPACK_POPULATION"`
	MaxGenerations           int     `yaml:"max_generations" env:"SHAPEPACK_MAX_GENERATIONS"`
	SteadyGenerations        int     `yaml:"steady_generations" env:"SHAPEPACK_STEADY_GENERATIONS"`
	TournamentSize           int     `yaml:"tournament_size" env:"SHAPEPACK_TOURNAMENT_SIZE"`
	OffspringFraction        float64 `yaml:"offspring_fraction" env:"SHAPEPACK_OFFSPRING_FRACTION"`
	UniformCrossoverProb     float64 `yaml:"uniform_crossover_prob" env:"SHAPEPACK_UNIFORM_CROSSOVER_PROB"`
	SinglePointCrossoverProb float64 `yaml:"single_point_crossover_prob" env:"SHAPEPACK_SINGLE_POINT_CROSSOVER_PROB"`
	MutationRate             float64 `yaml:"mutation_rate" env:"SHAPEPACK_MUTATION_RATE"`
	UtilizationWeight        float64 `yaml:"utilization_weight" env:"SHAPEPACK_UTILIZATION_WEIGHT"`
	Workers                  int     `yaml:"workers" env:"SHAPEPACK_WORKERS"`
	Seed                     int64   `yaml:"seed" env:"SHAPEPACK_SEED"`
	ProgressLogsPerSecond    float64 `yaml:"progress_logs_per_second" env:"SHAPEPACK_PROGRESS_LOGS_PER_SECOND"`
}

// CLIOverrides holds command-line flag overrides. Nil pointers mean the
// flag was not given.
type CLIOverrides struct {
	ConfigFile string
	Population *int
	Seed       *int64
	Workers    *int
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		PopulationSize:           200,
		MaxGenerations:           500,
		SteadyGenerations:        70,
		TournamentSize:           5,
		OffspringFraction:        0.6,
		UniformCrossoverProb:     0.4,
		SinglePointCrossoverProb: 0.4,
		MutationRate:             0.2,
		UtilizationWeight:        100,
		Workers:                  0, // 0 = NumCPU, resolved by the engine
		Seed:                     42,
		ProgressLogsPerSecond:    2,
	}
}

// Load resolves the configuration: defaults, then the YAML file if given,
// then environment variables, then CLI overrides, then validation.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := Default()

	if overrides != nil && overrides.ConfigFile != "" {
		data, err := os.ReadFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if overrides != nil {
		if overrides.Population != nil {
			cfg.PopulationSize = *overrides.Population
		}
		if overrides.Seed != nil {
			cfg.Seed = *overrides.Seed
		}
		if overrides.Workers != nil {
			cfg.Workers = *overrides.Workers
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func Validate(cfg Config) error {
	if cfg.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", cfg.PopulationSize)
	}
	if cfg.MaxGenerations <= 0 {
		return fmt.Errorf("max_generations must be positive, got %d", cfg.MaxGenerations)
	}
	if cfg.SteadyGenerations <= 0 {
		return fmt.Errorf("steady_generations must be positive, got %d", cfg.SteadyGenerations)
	}
	if cfg.TournamentSize <= 0 {
		return fmt.Errorf("tournament_size must be positive, got %d", cfg.TournamentSize)
	}
	if cfg.OffspringFraction < 0 || cfg.OffspringFraction > 1 {
		return fmt.Errorf("offspring_fraction must be in [0,1], got %g", cfg.OffspringFraction)
	}
	for name, p := range map[string]float64{
		"uniform_crossover_prob":      cfg.UniformCrossoverProb,
		"single_point_crossover_prob": cfg.SinglePointCrossoverProb,
		"mutation_rate":               cfg.MutationRate,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, p)
		}
	}
	if cfg.UtilizationWeight < 0 {
		return fmt.Errorf("utilization_weight must not be negative, got %g", cfg.UtilizationWeight)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return nil
}
