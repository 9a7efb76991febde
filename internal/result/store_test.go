package result_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spachava753/agentgym/internal/config"
	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/result"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg, err := config.New("customer_support", config.WithEpisodes(50), config.WithSeed(7))
	if err != nil {
		t.Fatalf("creating config: %v", err)
	}
	convergence := 40
	metrics := models.TrainingMetrics{
		ToolReliability:    0.9,
		AvgTokensUsed:      210.5,
		AvgResponseTime:    1.25,
		CostReduction:      0.36,
		EpisodesCompleted:  50,
		TotalTrainingTime:  0.75,
		FinalReward:        4.5,
		ConvergenceEpisode: &convergence,
	}
	want := models.NewTrainingResult(cfg, metrics, "models/customer_support_langchain_ep50", map[string]any{
		"trajectories_count": 50,
	})

	path := filepath.Join(t.TempDir(), "nested", "result.json")
	if err := result.Save(path, want); err != nil {
		t.Fatalf("saving result: %v", err)
	}

	got, err := result.Load(path)
	if err != nil {
		t.Fatalf("loading result: %v", err)
	}

	if got.Config.Scenario != want.Config.Scenario {
		t.Errorf("expected scenario %q, got %q", want.Config.Scenario, got.Config.Scenario)
	}
	if got.Config.Seed == nil || *got.Config.Seed != 7 {
		t.Errorf("expected seed 7, got %v", got.Config.Seed)
	}
	if got.Metrics.ToolReliability != metrics.ToolReliability {
		t.Errorf("expected tool_reliability %v, got %v", metrics.ToolReliability, got.Metrics.ToolReliability)
	}
	if got.Metrics.ConvergenceEpisode == nil || *got.Metrics.ConvergenceEpisode != convergence {
		t.Errorf("expected convergence_episode %d, got %v", convergence, got.Metrics.ConvergenceEpisode)
	}
	if got.TrainedModelPath != want.TrainedModelPath {
		t.Errorf("expected model path %q, got %q", want.TrainedModelPath, got.TrainedModelPath)
	}
	if got.Timestamp != want.Timestamp {
		t.Errorf("expected timestamp %q, got %q", want.Timestamp, got.Timestamp)
	}
	if got.Version != models.Version {
		t.Errorf("expected version %q, got %q", models.Version, got.Version)
	}
	if got.Artifacts["trajectories_count"] != float64(50) {
		t.Errorf("expected trajectories_count 50, got %v", got.Artifacts["trajectories_count"])
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
		substr  string
	}{
		{
			name:   "missing file",
			path:   filepath.Join(dir, "missing.json"),
			substr: "reading result",
		},
		{
			name:   "malformed json",
			path:   write("bad.json", "{"),
			substr: "parsing result",
		},
		{
			name:    "invalid metrics",
			path:    write("metrics.json", `{"config": {"scenario": "x", "framework": "langchain", "episodes": 1, "learning_rate": 0.1, "discount_factor": 0.9, "batch_size": 1, "max_steps_per_episode": 1, "concurrency": 1}, "metrics": {"tool_reliability": 1.5}}`),
			wantErr: models.ErrMetricOutOfRange,
		},
		{
			name:    "invalid config",
			path:    write("config.json", `{"config": {"scenario": "x", "episodes": 0}, "metrics": {}}`),
			wantErr: models.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := result.Load(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error containing %q, got %q", tt.substr, err.Error())
			}
		})
	}
}
