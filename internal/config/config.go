package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
)

// Config holds the process settings read from TIMETABLE_* environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogEvery    int    `env:"LOG_EVERY" envDefault:"50"`
	Seed        uint64 `env:"SEED"` // 0 draws a random seed

	Genetic struct {
		PopulationSize int     `env:"POPULATION_SIZE" envDefault:"50"`
		Generations    int     `env:"GENERATIONS" envDefault:"500"`
		MutationRate   float64 `env:"MUTATION_RATE" envDefault:"0.05"`
		ElitismCount   int     `env:"ELITISM_COUNT" envDefault:"2"`
		Workers        int     `env:"WORKERS" envDefault:"1"`
	}
}

func (config *Config) IsProduction() bool {
	return config.Environment == "production"
}

func (config *Config) GeneticConfig() genetic.Config {
	return genetic.Config{
		PopulationSize: config.Genetic.PopulationSize,
		Generations:    config.Genetic.Generations,
		MutationRate:   config.Genetic.MutationRate,
		ElitismCount:   config.Genetic.ElitismCount,
		Workers:        config.Genetic.Workers,
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := env.ParseWithOptions(config, env.Options{Prefix: "TIMETABLE_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return config, nil
}
