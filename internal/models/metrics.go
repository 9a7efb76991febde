package models

import (
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// TrainingMetrics summarises a finished training session.
type TrainingMetrics struct {
	ToolReliability    float64 `json:"tool_reliability"`
	AvgTokensUsed      float64 `json:"avg_tokens_used"`
	AvgResponseTime    float64 `json:"avg_response_time"`
	CostReduction      float64 `json:"cost_reduction"`
	EpisodesCompleted  int     `json:"episodes_completed"`
	TotalTrainingTime  float64 `json:"total_training_time"`
	FinalReward        float64 `json:"final_reward"`
	ConvergenceEpisode *int    `json:"convergence_episode"`
}

// Validate range-checks the required fields. Out of range values are
// reported, never clamped.
func (m TrainingMetrics) Validate() error {
	outOfRange := func(key string, value any, want string) error {
		return goerr.Wrap(ErrMetricOutOfRange, fmt.Sprintf("%s must be %s", key, want), goerr.V(key, value))
	}

	if m.ToolReliability < 0 || m.ToolReliability > 1 {
		return outOfRange("tool_reliability", m.ToolReliability, "between 0.0 and 1.0")
	}
	if m.CostReduction < 0 || m.CostReduction > 1 {
		return outOfRange("cost_reduction", m.CostReduction, "between 0.0 and 1.0")
	}
	if m.AvgTokensUsed < 0 {
		return outOfRange("avg_tokens_used", m.AvgTokensUsed, "non-negative")
	}
	if m.AvgResponseTime < 0 {
		return outOfRange("avg_response_time", m.AvgResponseTime, "non-negative")
	}
	if m.EpisodesCompleted < 0 {
		return outOfRange("episodes_completed", m.EpisodesCompleted, "non-negative")
	}
	return nil
}

// MeetsTarget reports whether tool reliability reached target.
func (m TrainingMetrics) MeetsTarget(target float64) bool {
	return m.ToolReliability >= target
}

func (m *TrainingMetrics) UnmarshalJSON(data []byte) error {
	type plain TrainingMetrics
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := TrainingMetrics(p).Validate(); err != nil {
		return err
	}
	*m = TrainingMetrics(p)
	return nil
}
