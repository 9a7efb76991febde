package scenario

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/spachava753/agentgym/internal/models"
)

// Metric names shared by every scenario.
const (
	MetricToolReliability    = "tool_reliability"
	MetricAvgTokensUsed      = "avg_tokens_used"
	MetricAvgResponseTime    = "avg_response_time"
	MetricCostReduction      = "cost_reduction"
	MetricTotalTrainingTime  = "total_training_time"
	MetricFinalReward        = "final_reward"
	MetricConvergenceEpisode = "convergence_episode"
)

// convergenceMinTrajectories is the sample size below which no convergence
// episode is reported.
const convergenceMinTrajectories = 100

// Metrics is the result of aggregating trajectories. Domain holds the
// scenario-specific metrics layered on top of the shared ones.
type Metrics struct {
	ToolReliability    float64
	AvgTokensUsed      float64
	AvgResponseTime    float64
	CostReduction      float64
	TotalTrainingTime  float64
	FinalReward        float64
	ConvergenceEpisode *int
	Domain             map[string]float64
}

// Get returns the metric called name. The convergence episode is reported
// as a float and is absent until it has been estimated.
func (m Metrics) Get(name string) (float64, bool) {
	switch name {
	case MetricToolReliability:
		return m.ToolReliability, true
	case MetricAvgTokensUsed:
		return m.AvgTokensUsed, true
	case MetricAvgResponseTime:
		return m.AvgResponseTime, true
	case MetricCostReduction:
		return m.CostReduction, true
	case MetricTotalTrainingTime:
		return m.TotalTrainingTime, true
	case MetricFinalReward:
		return m.FinalReward, true
	case MetricConvergenceEpisode:
		if m.ConvergenceEpisode == nil {
			return 0, false
		}
		return float64(*m.ConvergenceEpisode), true
	}
	v, ok := m.Domain[name]
	return v, ok
}

// Flatten returns every metric keyed by name. An unknown convergence
// episode is reported as nil.
func (m Metrics) Flatten() map[string]any {
	out := make(map[string]any, 7+len(m.Domain))
	for k, v := range m.Domain {
		out[k] = v
	}
	out[MetricToolReliability] = m.ToolReliability
	out[MetricAvgTokensUsed] = m.AvgTokensUsed
	out[MetricAvgResponseTime] = m.AvgResponseTime
	out[MetricCostReduction] = m.CostReduction
	out[MetricTotalTrainingTime] = m.TotalTrainingTime
	out[MetricFinalReward] = m.FinalReward
	if m.ConvergenceEpisode != nil {
		out[MetricConvergenceEpisode] = *m.ConvergenceEpisode
	} else {
		out[MetricConvergenceEpisode] = nil
	}
	return out
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Flatten())
}

// BaselineMetrics is the aggregator shared by all scenarios. An empty input
// yields all zeros and no convergence episode.
func BaselineMetrics(trajectories []*models.Trajectory) Metrics {
	m := Metrics{Domain: map[string]float64{}}
	n := len(trajectories)
	if n == 0 {
		return m
	}

	var successful int
	tokens := make([]float64, 0, n)
	times := make([]float64, 0, n)
	rewards := make([]float64, 0, n)
	for _, t := range trajectories {
		if t.Success {
			successful++
		}
		tokens = append(tokens, t.MetadataFloat("tokens_used", 0))
		times = append(times, t.MetadataFloat("response_time", 0))
		rewards = append(rewards, t.TotalReward)
	}

	m.ToolReliability = ratio(successful, n)
	m.AvgTokensUsed = mean(tokens)
	m.AvgResponseTime = mean(times)
	// Rough proxy; scenarios with a calibrated baseline replace it.
	m.CostReduction = min(m.ToolReliability*0.4, 0.5)
	m.FinalReward = mean(rewards)

	if n >= convergenceMinTrajectories {
		// floor(0.8 * n)
		episode := n * 4 / 5
		m.ConvergenceEpisode = &episode
	}
	return m
}

// ratio divides, reporting 0 for a zero denominator.
func ratio[N int | float64](num, den N) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

// CriterionResult compares one success criterion with a measured metric.
type CriterionResult struct {
	Metric   string  `json:"metric"`
	Target   float64 `json:"target"`
	Actual   float64 `json:"actual"`
	Measured bool    `json:"measured"`
	Met      bool    `json:"met"`
}

// lowerIsBetter lists the metrics whose target is an upper bound.
var lowerIsBetter = map[string]bool{
	MetricFalsePositiveRate: true,
	MetricAvgReviewTime:     true,
}

// EvaluateCriteria checks every success criterion of s against m, sorted by
// metric name. A criterion whose metric was not measured is not met.
func EvaluateCriteria(s Scenario, m Metrics) []CriterionResult {
	criteria := s.SuccessCriteria()
	results := make([]CriterionResult, 0, len(criteria))
	for _, name := range slices.Sorted(maps.Keys(criteria)) {
		target := criteria[name]
		actual, ok := m.Get(name)
		met := ok && actual >= target
		if ok && lowerIsBetter[name] {
			met = actual <= target
		}
		results = append(results, CriterionResult{
			Metric:   name,
			Target:   target,
			Actual:   actual,
			Measured: ok,
			Met:      met,
		})
	}
	return results
}
