package trainer

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

// Episode describes one trajectory to synthesize.
type Episode struct {
	Index       int
	Episodes    int
	Seed        uint64
	MaxSteps    int
	Scenario    scenario.Scenario
	Environment scenario.Environment
}

// Synthesizer collects one trajectory per episode. Implementations must be
// safe for concurrent use and must depend only on the Episode they are given
// so that parallel synthesis reproduces the sequential result.
type Synthesizer interface {
	Synthesize(ctx context.Context, ep Episode) (*models.Trajectory, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(ctx context.Context, ep Episode) (*models.Trajectory, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, ep Episode) (*models.Trajectory, error) {
	return f(ctx, ep)
}

// SimulatedSynthesizer stands in for live environment interaction. Agent
// skill ramps from 0.6 towards 0.95 over the run. Scenarios implementing
// scenario.Simulator produce their own steps; others get generic tool calls.
type SimulatedSynthesizer struct{}

func (SimulatedSynthesizer) Synthesize(ctx context.Context, ep Episode) (*models.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(ep.Seed, uint64(ep.Index)))
	skill := Skill(ep.Index, ep.Episodes)

	if sim, ok := ep.Scenario.(scenario.Simulator); ok {
		t := sim.SimulateEpisode(rng, skill, ep.MaxSteps)
		if t.Metadata == nil {
			t.Metadata = map[string]any{}
		}
		t.Metadata["episode"] = ep.Index
		return t, nil
	}
	return genericEpisode(rng, skill, ep), nil
}

// Skill is the simulated success probability at episode index of episodes.
func Skill(index, episodes int) float64 {
	if episodes <= 0 {
		return 0.6
	}
	return min(0.6+float64(index)/float64(episodes)*0.35, 0.95)
}

func genericEpisode(rng *rand.Rand, skill float64, ep Episode) *models.Trajectory {
	success := rng.Float64() < skill
	n := 3 + rng.IntN(6)
	if ep.MaxSteps > 0 {
		n = min(n, ep.MaxSteps)
	}

	var stepReward float64
	if success {
		stepReward = 1
	}
	steps := make([]models.Step, n)
	for i := range steps {
		action := fmt.Sprintf("tool_call_%d", i)
		if actions := ep.Environment.Actions; len(actions) > 0 {
			action = actions[rng.IntN(len(actions))]
		}
		steps[i] = models.Step{
			"state":        fmt.Sprintf("state_%d", i),
			"action":       action,
			"reward":       stepReward,
			"tool_success": success,
		}
	}

	var total float64
	if success {
		total = float64(n)
	}
	return &models.Trajectory{
		Steps:       steps,
		TotalReward: total,
		Success:     success,
		Metadata: map[string]any{
			"episode":       ep.Index,
			"tokens_used":   float64(150 + rng.IntN(151)),
			"response_time": 0.5 + rng.Float64()*1.5,
		},
	}
}
