package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

func builtins() []scenario.Scenario {
	return []scenario.Scenario{
		scenario.NewCustomerSupport(),
		scenario.NewCodeReview(),
		scenario.NewDataAnalysis(),
	}
}

func ptr[T any](v T) *T { return &v }

func TestBroadcastRewardsLength(t *testing.T) {
	for _, s := range builtins() {
		t.Run(s.Info().Name, func(t *testing.T) {
			for _, n := range []int{0, 1, 7} {
				traj := &models.Trajectory{Success: n%2 == 0}
				for range n {
					traj.Steps = append(traj.Steps, models.Step{})
				}
				assert.Len(t, s.BroadcastRewards(traj), n)
			}
			assert.NotNil(t, s.BroadcastRewards(&models.Trajectory{}))
			assert.Empty(t, s.BroadcastRewards(nil))
		})
	}
}

func TestBroadcastRewardsOutcomeOnly(t *testing.T) {
	tests := []struct {
		s       scenario.Scenario
		success float64
		failure float64
	}{
		{scenario.NewCodeReview(), 15, -10},
		{scenario.NewDataAnalysis(), 12, -8},
	}
	for _, tt := range tests {
		t.Run(tt.s.Info().Name, func(t *testing.T) {
			steps := []models.Step{{}, {"action": "noop"}}
			assert.Equal(t, []float64{tt.success, tt.success},
				tt.s.BroadcastRewards(&models.Trajectory{Steps: steps, Success: true}))
			assert.Equal(t, []float64{tt.failure, tt.failure},
				tt.s.BroadcastRewards(&models.Trajectory{Steps: steps}))
		})
	}
}

func TestCodeReviewCriticalIssue(t *testing.T) {
	traj := &models.Trajectory{
		Steps:   []models.Step{{"issue_found": true, "severity": "critical"}},
		Success: true,
	}
	assert.Equal(t, []float64{35.0}, scenario.NewCodeReview().BroadcastRewards(traj))
}

func TestCodeReviewSeverityOrdering(t *testing.T) {
	s := scenario.NewCodeReview()
	reward := func(severity string) float64 {
		step := scenario.ReviewStep{IssueFound: true, Severity: severity}.Record()
		return s.BroadcastRewards(&models.Trajectory{Steps: []models.Step{step}, Success: true})[0]
	}

	critical, high := reward(scenario.SeverityCritical), reward(scenario.SeverityHigh)
	medium, low := reward(scenario.SeverityMedium), reward(scenario.SeverityLow)
	assert.Greater(t, critical, high)
	assert.Greater(t, high, medium)
	assert.Greater(t, medium, low)
	assert.Equal(t, low, reward(""), "missing severity counts as low")
}

func TestCodeReviewBonusesStack(t *testing.T) {
	step := scenario.ReviewStep{
		IssueFound:           true,
		Severity:             scenario.SeverityHigh,
		ConstructiveFeedback: true,
		ThoroughReview:       true,
		AppropriateAction:    true,
		ReviewTime:           ptr(900.0),
	}.Record()
	rewards := scenario.NewCodeReview().BroadcastRewards(&models.Trajectory{Steps: []models.Step{step}})
	// -10 + 10 + 10 + 8 + 15 + 2.5
	assert.InDelta(t, 35.5, rewards[0], 1e-9)

	fp := scenario.ReviewStep{IssueFound: true, Severity: scenario.SeverityLow, FalsePositive: true}.Record()
	rewards = scenario.NewCodeReview().BroadcastRewards(&models.Trajectory{Steps: []models.Step{fp}, Success: true})
	assert.InDelta(t, 2.0, rewards[0], 1e-9)
}

func TestSpeedBonusMonotonic(t *testing.T) {
	tests := []struct {
		name     string
		s        scenario.Scenario
		baseline float64
		step     func(elapsed float64) models.Step
	}{
		{"customer_support", scenario.NewCustomerSupport(), 240, func(v float64) models.Step {
			return scenario.SupportStep{ToolSuccess: true, ResponseTime: &v}.Record()
		}},
		{"code_review", scenario.NewCodeReview(), 1800, func(v float64) models.Step {
			return scenario.ReviewStep{ReviewTime: &v}.Record()
		}},
		{"data_analysis", scenario.NewDataAnalysis(), 3600, func(v float64) models.Step {
			return scenario.AnalysisStep{AnalysisTime: &v}.Record()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward := func(elapsed float64) float64 {
				traj := &models.Trajectory{Steps: []models.Step{tt.step(elapsed)}, Success: true}
				return tt.s.BroadcastRewards(traj)[0]
			}
			atBaseline := reward(tt.baseline)
			assert.Equal(t, atBaseline, reward(tt.baseline*2), "no penalty above baseline")
			assert.Greater(t, reward(tt.baseline/2), atBaseline)
			assert.Greater(t, reward(0), reward(tt.baseline/2))
		})
	}
}

func TestCustomerSupportRewards(t *testing.T) {
	s := scenario.NewCustomerSupport()
	tests := []struct {
		name    string
		step    models.Step
		success bool
		want    float64
	}{
		{"tool success", models.Step{"tool_success": true}, true, 20},
		{"tool failure", models.Step{"tool_success": false}, true, -10},
		{"missing tool flag", models.Step{}, false, -25},
		{"half the token baseline", models.Step{"tool_success": true, "tokens_used": 250.0}, true, 22.5},
		{"tokens over baseline", models.Step{"tool_success": true, "tokens_used": 900}, true, 20},
		{"instant response", models.Step{"tool_success": true, "response_time": 0.0}, false, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj := &models.Trajectory{Steps: []models.Step{tt.step}, Success: tt.success}
			assert.InDelta(t, tt.want, s.BroadcastRewards(traj)[0], 1e-9)
		})
	}
}

func TestDataAnalysisRewards(t *testing.T) {
	s := scenario.NewDataAnalysis()
	tests := []struct {
		name string
		step scenario.AnalysisStep
		want float64
	}{
		{"high quality data", scenario.AnalysisStep{DataQuality: scenario.QualityHigh}, 27},
		{"low quality data", scenario.AnalysisStep{DataQuality: scenario.QualityLow}, 2},
		{"accurate insight", scenario.AnalysisStep{Insight: ptr(true)}, 32},
		{"inaccurate insight", scenario.AnalysisStep{Insight: ptr(false)}, 2},
		{"unclear visualization", scenario.AnalysisStep{VisualizationClear: ptr(false)}, 12},
		{"everything", scenario.AnalysisStep{
			DataQuality:        scenario.QualityHigh,
			Insight:            ptr(true),
			VisualizationClear: ptr(true),
			ThoroughAnalysis:   true,
			StatisticallyValid: true,
			ActionableInsight:  true,
			AnalysisTime:       ptr(1800.0),
		}, 12 + 15 + 20 + 10 + 12 + 8 + 10 + 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj := &models.Trajectory{Steps: []models.Step{tt.step.Record()}, Success: true}
			assert.InDelta(t, tt.want, s.BroadcastRewards(traj)[0], 1e-9)
		})
	}
}

func TestBroadcastRewardsDoesNotMutate(t *testing.T) {
	traj := &models.Trajectory{
		Steps:       []models.Step{{"tool_success": true}},
		TotalReward: 3,
		Success:     true,
	}
	require.Len(t, scenario.NewCustomerSupport().BroadcastRewards(traj), 1)
	assert.Equal(t, 3.0, traj.TotalReward)
	assert.Equal(t, models.Step{"tool_success": true}, traj.Steps[0])
}
