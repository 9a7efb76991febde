package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is written into every persisted TrainingResult.
const Version = "0.1.0"

// TrainingResult bundles the outcome of a training session.
type TrainingResult struct {
	Config           TrainingConfig  `json:"config"`
	Metrics          TrainingMetrics `json:"metrics"`
	TrainedModelPath string          `json:"trained_model_path"`
	Artifacts        map[string]any  `json:"artifacts"`
	Timestamp        string          `json:"timestamp"`
	Version          string          `json:"version"`
}

// NewTrainingResult stamps a result with the current UTC time and version.
func NewTrainingResult(cfg TrainingConfig, metrics TrainingMetrics, modelPath string, artifacts map[string]any) *TrainingResult {
	if artifacts == nil {
		artifacts = map[string]any{}
	}
	return &TrainingResult{
		Config:           cfg,
		Metrics:          metrics,
		TrainedModelPath: modelPath,
		Artifacts:        artifacts,
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		Version:          Version,
	}
}

// UnmarshalJSON validates the embedded config and metrics and fills the
// optional fields the same way NewTrainingResult does.
func (r *TrainingResult) UnmarshalJSON(data []byte) error {
	type plain TrainingResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	p.Config.Normalize()
	if err := p.Config.Validate(); err != nil {
		return err
	}
	if p.Artifacts == nil {
		p.Artifacts = map[string]any{}
	}
	if p.Timestamp == "" {
		p.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if p.Version == "" {
		p.Version = Version
	}

	*r = TrainingResult(p)
	return nil
}

func (r *TrainingResult) String() string {
	return fmt.Sprintf("TrainingResult(scenario=%q, tool_reliability=%.1f%%, episodes=%d)",
		r.Config.Scenario, r.Metrics.ToolReliability*100, r.Metrics.EpisodesCompleted)
}
