package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Framework names the agent framework a trained policy is deployed into.
type Framework string

const (
	FrameworkLangChain Framework = "langchain"
	FrameworkAutoGen   Framework = "autogen"
	FrameworkCrewAI    Framework = "crewai"
)

// GPUProvider selects where training compute would run.
type GPUProvider string

const (
	GPUProviderAuto   GPUProvider = "auto"
	GPUProviderLocal  GPUProvider = "local"
	GPUProviderRunPod GPUProvider = "runpod"
	GPUProviderLambda GPUProvider = "lambda"
	GPUProviderCloud  GPUProvider = "cloud"
)

var (
	frameworks   = []Framework{FrameworkLangChain, FrameworkAutoGen, FrameworkCrewAI}
	gpuProviders = []GPUProvider{GPUProviderAuto, GPUProviderLocal, GPUProviderRunPod, GPUProviderLambda, GPUProviderCloud}

	scenarioNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// TrainingConfig holds the hyperparameters of a training session.
// Construct it through the config package so that it is validated.
type TrainingConfig struct {
	Scenario           string      `yaml:"scenario" toml:"scenario" json:"scenario"`
	Framework          Framework   `yaml:"framework" toml:"framework" json:"framework"`
	Episodes           int         `yaml:"episodes" toml:"episodes" json:"episodes"`
	GPUProvider        GPUProvider `yaml:"gpu_provider" toml:"gpu_provider" json:"gpu_provider"`
	GPUType            string      `yaml:"gpu_type" toml:"gpu_type" json:"gpu_type"`
	LearningRate       float64     `yaml:"learning_rate" toml:"learning_rate" json:"learning_rate"`
	DiscountFactor     float64     `yaml:"discount_factor" toml:"discount_factor" json:"discount_factor"`
	BatchSize          int         `yaml:"batch_size" toml:"batch_size" json:"batch_size"`
	MaxStepsPerEpisode int         `yaml:"max_steps_per_episode" toml:"max_steps_per_episode" json:"max_steps_per_episode"`
	CheckpointInterval int         `yaml:"checkpoint_interval" toml:"checkpoint_interval" json:"checkpoint_interval"`
	Verbose            bool        `yaml:"verbose" toml:"verbose" json:"verbose"`
	Seed               *int64      `yaml:"seed,omitempty" toml:"seed,omitempty" json:"seed"`
	OutputDir          string      `yaml:"output_dir" toml:"output_dir" json:"output_dir"`
	Concurrency        int         `yaml:"concurrency" toml:"concurrency" json:"concurrency"`
	LogLevel           string      `yaml:"log_level,omitempty" toml:"log_level,omitempty" json:"log_level,omitempty"`
}

// Normalize lower-cases the scenario name in place.
func (c *TrainingConfig) Normalize() {
	c.Scenario = strings.ToLower(strings.TrimSpace(c.Scenario))
}

// Validate checks every field and reports the first violation wrapped
// around ErrInvalidConfig. Values are never clamped.
func (c *TrainingConfig) Validate() error {
	invalid := func(msg, key string, value any) error {
		return goerr.Wrap(ErrInvalidConfig, msg, goerr.V(key, value))
	}

	if c.Scenario == "" {
		return invalid("scenario must not be empty", "scenario", c.Scenario)
	}
	if !scenarioNamePattern.MatchString(c.Scenario) {
		return invalid("scenario name must contain only alphanumeric characters, underscores, and hyphens", "scenario", c.Scenario)
	}
	if !slices.Contains(frameworks, c.Framework) {
		return invalid(fmt.Sprintf("framework must be one of %v", frameworks), "framework", c.Framework)
	}
	if c.Episodes <= 0 {
		return invalid("episodes must be positive", "episodes", c.Episodes)
	}
	if !slices.Contains(gpuProviders, c.GPUProvider) {
		return invalid(fmt.Sprintf("gpu_provider must be one of %v", gpuProviders), "gpu_provider", c.GPUProvider)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return invalid("learning_rate must be in (0, 1]", "learning_rate", c.LearningRate)
	}
	if c.DiscountFactor <= 0 || c.DiscountFactor >= 1 {
		return invalid("discount_factor must be in (0, 1)", "discount_factor", c.DiscountFactor)
	}
	if c.BatchSize <= 0 {
		return invalid("batch_size must be positive", "batch_size", c.BatchSize)
	}
	if c.MaxStepsPerEpisode <= 0 {
		return invalid("max_steps_per_episode must be positive", "max_steps_per_episode", c.MaxStepsPerEpisode)
	}
	if c.CheckpointInterval < 0 {
		return invalid("checkpoint_interval must not be negative", "checkpoint_interval", c.CheckpointInterval)
	}
	if c.Seed != nil && *c.Seed < 0 {
		return invalid("seed must not be negative", "seed", *c.Seed)
	}
	if c.Concurrency < 1 {
		return invalid("concurrency must be at least 1", "concurrency", c.Concurrency)
	}
	return nil
}

func (c TrainingConfig) String() string {
	return fmt.Sprintf("TrainingConfig(scenario=%q, framework=%q, episodes=%d)", c.Scenario, c.Framework, c.Episodes)
}
