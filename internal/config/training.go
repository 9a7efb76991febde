package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/agentgym/internal/models"
)

// DefaultTrainingConfig returns a TrainingConfig with default values and
// no scenario.
func DefaultTrainingConfig() models.TrainingConfig {
	return models.TrainingConfig{
		Framework:          models.FrameworkLangChain,
		Episodes:           10000,
		GPUProvider:        models.GPUProviderAuto,
		GPUType:            "auto",
		LearningRate:       0.0003,
		DiscountFactor:     0.95,
		BatchSize:          64,
		MaxStepsPerEpisode: 100,
		CheckpointInterval: 1000,
		Verbose:            true,
		OutputDir:          "models",
		Concurrency:        1,
	}
}

// Option adjusts a TrainingConfig before validation.
type Option func(*models.TrainingConfig)

func WithEpisodes(n int) Option {
	return func(c *models.TrainingConfig) { c.Episodes = n }
}

func WithFramework(f models.Framework) Option {
	return func(c *models.TrainingConfig) { c.Framework = f }
}

func WithLearningRate(lr float64) Option {
	return func(c *models.TrainingConfig) { c.LearningRate = lr }
}

func WithDiscountFactor(gamma float64) Option {
	return func(c *models.TrainingConfig) { c.DiscountFactor = gamma }
}

func WithBatchSize(n int) Option {
	return func(c *models.TrainingConfig) { c.BatchSize = n }
}

func WithCheckpointInterval(n int) Option {
	return func(c *models.TrainingConfig) { c.CheckpointInterval = n }
}

// WithSeed fixes the random seed used for trajectory synthesis.
func WithSeed(seed int64) Option {
	return func(c *models.TrainingConfig) { c.Seed = &seed }
}

func WithOutputDir(dir string) Option {
	return func(c *models.TrainingConfig) { c.OutputDir = dir }
}

// WithConcurrency sets how many episodes are synthesized in parallel.
func WithConcurrency(n int) Option {
	return func(c *models.TrainingConfig) { c.Concurrency = n }
}

func WithVerbose(v bool) Option {
	return func(c *models.TrainingConfig) { c.Verbose = v }
}

// New builds a validated config for scenario.
func New(scenario string, opts ...Option) (models.TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	cfg.Scenario = scenario
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return models.TrainingConfig{}, err
	}
	return cfg, nil
}

// Update applies fn to a copy of cfg and re-validates it. The original is
// returned unchanged together with the error when validation fails.
func Update(cfg models.TrainingConfig, fn func(*models.TrainingConfig)) (models.TrainingConfig, error) {
	next := cfg
	if cfg.Seed != nil {
		seed := *cfg.Seed
		next.Seed = &seed
	}
	fn(&next)

	next.Normalize()
	if err := next.Validate(); err != nil {
		return cfg, err
	}
	return next, nil
}

// LoadTrainingConfig loads a training config from a .yaml, .yml or .toml
// file, applying defaults for missing values.
func LoadTrainingConfig(path string) (models.TrainingConfig, error) {
	cfg := DefaultTrainingConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading training config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing training config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing training config: %w", err)
		}
	default:
		return cfg, goerr.Wrap(models.ErrInvalidConfig, "unsupported config file extension", goerr.V("path", path))
	}

	// Apply defaults for missing values
	if cfg.Framework == "" {
		cfg.Framework = models.FrameworkLangChain
	}
	if cfg.GPUProvider == "" {
		cfg.GPUProvider = models.GPUProviderAuto
	}
	if cfg.GPUType == "" {
		cfg.GPUType = "auto"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "models"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
