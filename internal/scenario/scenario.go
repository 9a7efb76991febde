// Package scenario defines training scenarios: the environment an agent is
// trained in, how episode outcomes are broadcast into per-step rewards, and
// how finished episodes are aggregated into metrics.
package scenario

import (
	"fmt"
	"math/rand/v2"

	"github.com/spachava753/agentgym/internal/models"
)

// Difficulty grades a scenario.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Info identifies a scenario.
type Info struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Difficulty)
}

// Baseline keys carried by Environment.Baselines.
const (
	BaselineTokens   = "baseline_tokens"
	BaselineTime     = "baseline_time"
	BaselineAccuracy = "baseline_accuracy"
)

// Environment describes what an agent can do in a scenario. The trainer
// treats it as opaque and only hands it to trajectory synthesis.
type Environment struct {
	Type      string             `json:"type"`
	Actions   []string           `json:"actions"`
	Catalog   any                `json:"catalog"`
	Baselines map[string]float64 `json:"baselines"`
}

// Trainable policy components.
const (
	ComponentToolSelection      = "tool_selection"
	ComponentParameterSelection = "parameter_selection"
	ComponentToolExecution      = "tool_execution"
	ComponentOutputGeneration   = "output_generation"
)

// Components lists the trainable components in their canonical order.
var Components = []string{
	ComponentToolSelection,
	ComponentParameterSelection,
	ComponentToolExecution,
	ComponentOutputGeneration,
}

// Scenario is a domain-specific training task definition.
type Scenario interface {
	Info() Info

	// CreateEnvironment returns the environment descriptor for a session.
	CreateEnvironment() Environment

	// BroadcastRewards assigns the trajectory outcome reward to every step
	// and adds step-local bonuses. The result has exactly one entry per step.
	BroadcastRewards(t *models.Trajectory) []float64

	// CalculateMetrics aggregates trajectories into named metrics.
	CalculateMetrics(trajectories []*models.Trajectory) Metrics

	// SuccessCriteria maps metric names to their target values.
	SuccessCriteria() map[string]float64

	// TrainableComponents reports which policy components may be updated.
	TrainableComponents() map[string]bool

	// ValidateTrajectory reports whether t can carry a training signal.
	ValidateTrajectory(t *models.Trajectory) bool
}

// Simulator is implemented by scenarios that can synthesize stand-in
// episodes in place of live environment interaction. skill is the
// probability that the episode succeeds.
type Simulator interface {
	SimulateEpisode(rng *rand.Rand, skill float64, maxSteps int) *models.Trajectory
}

// Base provides the default implementations shared by all scenarios.
// Embed it and override what differs.
type Base struct{}

// TrainableComponents trains tool and parameter selection and freezes
// tool execution and output generation.
func (Base) TrainableComponents() map[string]bool {
	return map[string]bool{
		ComponentToolSelection:      true,
		ComponentParameterSelection: true,
		ComponentToolExecution:      false,
		ComponentOutputGeneration:   false,
	}
}

func (Base) ValidateTrajectory(t *models.Trajectory) bool {
	return t.Validate() == nil
}

func (Base) CalculateMetrics(trajectories []*models.Trajectory) Metrics {
	return BaselineMetrics(trajectories)
}

// broadcast gives every step the outcome reward for the trajectory plus the
// bonus computed for that step alone.
func broadcast(t *models.Trajectory, successReward, failureReward float64, bonus func(models.Step) float64) []float64 {
	if t == nil {
		return []float64{}
	}

	outcome := failureReward
	if t.Success {
		outcome = successReward
	}

	rewards := make([]float64, len(t.Steps))
	for i, step := range t.Steps {
		rewards[i] = outcome + bonus(step)
	}
	return rewards
}

// linearBonus scales maxBonus by how far actual undercuts baseline. There is
// no bonus and no penalty at or above the baseline.
func linearBonus(maxBonus, baseline, actual float64) float64 {
	if baseline <= 0 || actual >= baseline {
		return 0
	}
	return maxBonus * (baseline - actual) / baseline
}

// truncate caps a simulated episode at maxSteps.
func truncate(steps []models.Step, maxSteps int) []models.Step {
	if maxSteps > 0 && len(steps) > maxSteps {
		return steps[:maxSteps]
	}
	return steps
}

func sumStepField(steps []models.Step, key string) float64 {
	var total float64
	for _, step := range steps {
		if v, ok := step.Float(key); ok {
			total += v
		}
	}
	return total
}
