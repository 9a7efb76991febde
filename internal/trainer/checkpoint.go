package trainer

import (
	"fmt"
	"path/filepath"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/result"
)

// CheckpointPath is where the snapshot taken after episode is written.
func CheckpointPath(dir string, episode int) string {
	return filepath.Join(dir, fmt.Sprintf("checkpoint_ep%d.json", episode))
}

// checkpoint writes a result-shaped snapshot of the run so far.
func (t *Trainer) checkpoint(episode int) error {
	trajectories := t.Trajectories()
	metrics := toTrainingMetrics(t.scenario.CalculateMetrics(trajectories), len(trajectories))

	snapshot := models.NewTrainingResult(t.cfg, metrics, ModelPath(t.cfg), map[string]any{
		"run_id":             t.runID,
		"checkpoint_episode": episode,
		"trajectories_count": len(trajectories),
	})

	path := CheckpointPath(t.checkpointDir, episode)
	if err := result.Save(path, snapshot); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}

	t.logger.Debug("checkpoint written", "episode", episode, "path", path)
	return nil
}
