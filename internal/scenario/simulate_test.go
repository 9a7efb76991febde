package scenario_test

import (
	"math/rand/v2"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

func TestCreateEnvironment(t *testing.T) {
	tests := []struct {
		s         scenario.Scenario
		typ       string
		baselines []string
	}{
		{scenario.NewCustomerSupport(), "customer_support", []string{scenario.BaselineTokens, scenario.BaselineTime}},
		{scenario.NewCodeReview(), "code_review", []string{scenario.BaselineTime, scenario.BaselineAccuracy}},
		{scenario.NewDataAnalysis(), "data_analysis", []string{scenario.BaselineTime, scenario.BaselineAccuracy}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			env := tt.s.CreateEnvironment()
			assert.Equal(t, tt.typ, env.Type)
			assert.NotEmpty(t, env.Actions)
			assert.NotNil(t, env.Catalog)
			for _, key := range tt.baselines {
				assert.Positive(t, env.Baselines[key], key)
			}
		})
	}
}

func TestCreateEnvironmentIsolated(t *testing.T) {
	s := scenario.NewCustomerSupport()
	env := s.CreateEnvironment()
	env.Actions[0] = "mutated"
	assert.NotEqual(t, "mutated", s.CreateEnvironment().Actions[0])
}

func TestLoadCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog/tiny.toml": {Data: []byte("actions = [\"a\", \"b\"]\n\n[[tasks]]\nid = \"T-1\"\nexpected_insights = 2\n")},
		"catalog/bad.toml":  {Data: []byte("actions = [")},
	}

	var c scenario.AnalysisCatalog
	require.NoError(t, scenario.LoadCatalog(fsys, "tiny", &c))
	assert.Equal(t, []string{"a", "b"}, c.Actions)
	require.Len(t, c.Tasks, 1)
	assert.Equal(t, 2, c.Tasks[0].ExpectedInsights)

	assert.Error(t, scenario.LoadCatalog(fsys, "bad", &c))
	assert.Error(t, scenario.LoadCatalog(fsys, "missing", &c))
}

func TestTrainableComponents(t *testing.T) {
	for _, s := range builtins() {
		components := s.TrainableComponents()
		assert.Len(t, components, len(scenario.Components))
		assert.True(t, components[scenario.ComponentToolSelection])
		assert.True(t, components[scenario.ComponentParameterSelection])
		assert.False(t, components[scenario.ComponentToolExecution])
		assert.False(t, components[scenario.ComponentOutputGeneration])
	}
}

func TestSimulateEpisode(t *testing.T) {
	for _, s := range builtins() {
		t.Run(s.Info().Name, func(t *testing.T) {
			sim, ok := s.(scenario.Simulator)
			require.True(t, ok)

			for ep := range uint64(20) {
				traj := sim.SimulateEpisode(rand.New(rand.NewPCG(7, ep)), 0.8, 100)
				require.NotNil(t, traj)
				assert.True(t, s.ValidateTrajectory(traj))
				assert.Len(t, s.BroadcastRewards(traj), traj.Len())
				assert.Contains(t, traj.Metadata, "tokens_used")
				assert.Contains(t, traj.Metadata, "response_time")
			}
		})
	}
}

func TestSimulateEpisodeDeterministic(t *testing.T) {
	for _, s := range builtins() {
		t.Run(s.Info().Name, func(t *testing.T) {
			sim := s.(scenario.Simulator)
			a := sim.SimulateEpisode(rand.New(rand.NewPCG(42, 3)), 0.7, 100)
			b := sim.SimulateEpisode(rand.New(rand.NewPCG(42, 3)), 0.7, 100)
			assert.Equal(t, a, b)
		})
	}
}

func TestSimulateEpisodeMaxSteps(t *testing.T) {
	for _, s := range builtins() {
		t.Run(s.Info().Name, func(t *testing.T) {
			sim := s.(scenario.Simulator)
			for ep := range uint64(10) {
				traj := sim.SimulateEpisode(rand.New(rand.NewPCG(1, ep)), 0.5, 2)
				assert.LessOrEqual(t, traj.Len(), 2)
				assert.Positive(t, traj.Len())
			}
		})
	}
}

func TestSimulateEpisodeSkill(t *testing.T) {
	sim := scenario.NewCodeReview()
	successes := func(skill float64) int {
		n := 0
		for ep := range uint64(200) {
			if sim.SimulateEpisode(rand.New(rand.NewPCG(9, ep)), skill, 100).Success {
				n++
			}
		}
		return n
	}
	assert.Zero(t, successes(0))
	assert.Equal(t, 200, successes(1))
}

func TestValidateTrajectory(t *testing.T) {
	s := scenario.NewCustomerSupport()
	assert.False(t, s.ValidateTrajectory(nil))
	assert.False(t, s.ValidateTrajectory(&models.Trajectory{Success: true}))
	assert.False(t, s.ValidateTrajectory(&models.Trajectory{Steps: []models.Step{nil}}))
	assert.True(t, s.ValidateTrajectory(&models.Trajectory{
		Steps: []models.Step{scenario.SupportStep{Tool: "search_kb"}.Record()},
	}))
}
