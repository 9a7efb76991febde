package trainer

import (
	"encoding/json"

	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

// recentWindow bounds the trajectories a history entry is computed over.
const recentWindow = 100

// HistoryEntry is a metrics snapshot taken after Episode episodes.
type HistoryEntry struct {
	Episode int
	Metrics scenario.Metrics
}

// MarshalJSON flattens the metrics next to the episode number.
func (h HistoryEntry) MarshalJSON() ([]byte, error) {
	out := h.Metrics.Flatten()
	out["episode"] = h.Episode
	return json.Marshal(out)
}

// historyInterval is how many episodes pass between history entries.
func historyInterval(episodes int) int {
	return max(1, episodes/10)
}

func recent(trajectories []*models.Trajectory) []*models.Trajectory {
	if len(trajectories) > recentWindow {
		return trajectories[len(trajectories)-recentWindow:]
	}
	return trajectories
}

func toTrainingMetrics(m scenario.Metrics, episodes int) models.TrainingMetrics {
	return models.TrainingMetrics{
		ToolReliability:    m.ToolReliability,
		AvgTokensUsed:      m.AvgTokensUsed,
		AvgResponseTime:    m.AvgResponseTime,
		CostReduction:      m.CostReduction,
		EpisodesCompleted:  episodes,
		TotalTrainingTime:  m.TotalTrainingTime,
		FinalReward:        m.FinalReward,
		ConvergenceEpisode: m.ConvergenceEpisode,
	}
}
