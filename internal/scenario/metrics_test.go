package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

func TestCalculateMetricsEmpty(t *testing.T) {
	for _, s := range builtins() {
		t.Run(s.Info().Name, func(t *testing.T) {
			m := s.CalculateMetrics(nil)
			assert.Zero(t, m.ToolReliability)
			assert.Zero(t, m.AvgTokensUsed)
			assert.Zero(t, m.CostReduction)
			assert.Zero(t, m.FinalReward)
			assert.Nil(t, m.ConvergenceEpisode)
			for name := range s.SuccessCriteria() {
				v, ok := m.Get(name)
				assert.True(t, ok, "metric %s missing", name)
				assert.Zero(t, v, "metric %s", name)
			}
		})
	}
}

func TestBaselineMetrics(t *testing.T) {
	trajectories := []*models.Trajectory{
		{Steps: []models.Step{{}}, Success: true, TotalReward: 10, Metadata: map[string]any{"tokens_used": 100.0, "response_time": 2.0}},
		{Steps: []models.Step{{}}, Success: false, TotalReward: 0, Metadata: map[string]any{"tokens_used": 300}},
		{Steps: []models.Step{{}}, Success: true, TotalReward: 5},
		{Steps: []models.Step{{}}, Success: true, TotalReward: 1},
	}
	m := scenario.BaselineMetrics(trajectories)
	assert.InDelta(t, 0.75, m.ToolReliability, 1e-9)
	assert.InDelta(t, 100.0, m.AvgTokensUsed, 1e-9)
	assert.InDelta(t, 0.5, m.AvgResponseTime, 1e-9)
	assert.InDelta(t, 0.3, m.CostReduction, 1e-9)
	assert.InDelta(t, 4.0, m.FinalReward, 1e-9)
	assert.Zero(t, m.TotalTrainingTime)
	assert.Nil(t, m.ConvergenceEpisode)
}

func TestBaselineMetricsConvergence(t *testing.T) {
	batch := func(n int) []*models.Trajectory {
		out := make([]*models.Trajectory, n)
		for i := range out {
			out[i] = &models.Trajectory{Steps: []models.Step{{}}, Success: true}
		}
		return out
	}

	assert.Nil(t, scenario.BaselineMetrics(batch(99)).ConvergenceEpisode)

	m := scenario.BaselineMetrics(batch(100))
	require.NotNil(t, m.ConvergenceEpisode)
	assert.Equal(t, 80, *m.ConvergenceEpisode)

	m = scenario.BaselineMetrics(batch(127))
	require.NotNil(t, m.ConvergenceEpisode)
	assert.Equal(t, 101, *m.ConvergenceEpisode)
	assert.InDelta(t, 0.4, m.CostReduction, 1e-9)
}

func TestCustomerSupportMetrics(t *testing.T) {
	m := scenario.NewCustomerSupport().CalculateMetrics([]*models.Trajectory{{
		Steps:    []models.Step{{"tool_success": true}},
		Success:  true,
		Metadata: map[string]any{"tokens_used": 300, "response_time": 50.0},
	}})
	assert.InDelta(t, 0.4, m.CostReduction, 1e-9)
	savings, ok := m.Get(scenario.MetricTimeSavings)
	require.True(t, ok)
	assert.InEpsilon(t, 0.79, savings, 0.01)
}

func TestCustomerSupportMetricsOverBaseline(t *testing.T) {
	m := scenario.NewCustomerSupport().CalculateMetrics([]*models.Trajectory{{
		Steps:    []models.Step{{}},
		Metadata: map[string]any{"tokens_used": 800.0, "response_time": 400.0},
	}})
	assert.Zero(t, m.CostReduction)
	assert.Zero(t, m.Domain[scenario.MetricTimeSavings])
}

func TestCodeReviewMetrics(t *testing.T) {
	trajectories := []*models.Trajectory{
		{
			Steps: []models.Step{
				{"action": "start_review", "total_issues": 4},
				{"issue_found": true, "severity": "high", "review_time": 100.0},
				{"issue_found": true, "severity": "low", "false_positive": true, "review_time": 300.0},
			},
			Success:  true,
			Metadata: map[string]any{"found_all_issues": true},
		},
		{
			Steps:    []models.Step{{"issue_found": true}, {"false_positive": true}},
			Success:  false,
			Metadata: map[string]any{"found_all_issues": true},
		},
	}
	m := scenario.NewCodeReview().CalculateMetrics(trajectories)
	assert.InDelta(t, 0.75, m.Domain[scenario.MetricReviewAccuracy], 1e-9)
	assert.InDelta(t, 1.0/3.0, m.Domain[scenario.MetricFalsePositiveRate], 1e-9)
	assert.InDelta(t, 0.5, m.Domain[scenario.MetricReviewCompleteness], 1e-9)
	assert.InDelta(t, 200.0, m.Domain[scenario.MetricAvgReviewTime], 1e-9)
}

func TestCodeReviewMetricsZeroDenominators(t *testing.T) {
	m := scenario.NewCodeReview().CalculateMetrics([]*models.Trajectory{
		{Steps: []models.Step{{"action": "read_code"}}, Success: true},
	})
	assert.Zero(t, m.Domain[scenario.MetricReviewAccuracy])
	assert.Zero(t, m.Domain[scenario.MetricFalsePositiveRate])
	assert.Zero(t, m.Domain[scenario.MetricReviewCompleteness])
	assert.Zero(t, m.Domain[scenario.MetricAvgReviewTime])
}

func TestDataAnalysisMetrics(t *testing.T) {
	trajectories := []*models.Trajectory{{
		Steps: []models.Step{
			{"data_quality": "high"},
			{"data_quality": "low"},
			{"data_quality": "medium"},
			{"insight_accurate": true, "actionable_insight": true},
			{"insight_inaccurate": true},
			{"visualization_clear": true},
			{"visualization_clear": false},
			{"action": "export_results"},
		},
		Success: true,
	}}
	m := scenario.NewDataAnalysis().CalculateMetrics(trajectories)
	assert.InDelta(t, 0.5, m.Domain[scenario.MetricAnalysisAccuracy], 1e-9)
	assert.InDelta(t, 1.0/3.0, m.Domain[scenario.MetricDataQuality], 1e-9)
	assert.InDelta(t, 0.5, m.Domain[scenario.MetricVisualizationQuality], 1e-9)
	assert.InDelta(t, 0.5, m.Domain[scenario.MetricInsightQuality], 1e-9)
}

func TestMetricsFlatten(t *testing.T) {
	m := scenario.NewDataAnalysis().CalculateMetrics(nil)
	flat := m.Flatten()
	assert.Contains(t, flat, scenario.MetricConvergenceEpisode)
	assert.Nil(t, flat[scenario.MetricConvergenceEpisode])
	assert.Contains(t, flat, scenario.MetricVisualizationQuality)
	assert.Contains(t, flat, scenario.MetricToolReliability)

	_, ok := m.Get(scenario.MetricConvergenceEpisode)
	assert.False(t, ok)
	_, ok = m.Get("no_such_metric")
	assert.False(t, ok)
}

func TestEvaluateCriteria(t *testing.T) {
	s := scenario.NewCodeReview()
	m := s.CalculateMetrics(nil)
	m.Domain[scenario.MetricReviewAccuracy] = 0.95
	m.Domain[scenario.MetricFalsePositiveRate] = 0.05
	m.Domain[scenario.MetricReviewCompleteness] = 0.5
	m.Domain[scenario.MetricAvgReviewTime] = 900

	results := scenario.EvaluateCriteria(s, m)
	require.Len(t, results, 4)

	got := map[string]bool{}
	names := make([]string, 0, len(results))
	for _, r := range results {
		assert.True(t, r.Measured)
		got[r.Metric] = r.Met
		names = append(names, r.Metric)
	}
	assert.IsIncreasing(t, names)
	assert.True(t, got[scenario.MetricReviewAccuracy])
	assert.True(t, got[scenario.MetricFalsePositiveRate])
	assert.False(t, got[scenario.MetricReviewCompleteness])
	assert.False(t, got[scenario.MetricAvgReviewTime])
}

func TestEvaluateCriteriaUnmeasured(t *testing.T) {
	results := scenario.EvaluateCriteria(scenario.NewDataAnalysis(), scenario.Metrics{})
	for _, r := range results {
		assert.False(t, r.Measured)
		assert.False(t, r.Met)
	}
}
