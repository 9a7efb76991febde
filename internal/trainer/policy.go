package trainer

import (
	"context"
	"log/slog"

	"github.com/spachava753/agentgym/internal/models"
)

// PolicyUpdate is the training signal for one episode. Only the listed
// components may be changed by the update.
type PolicyUpdate struct {
	Episode     int
	Trajectory  *models.Trajectory
	StepRewards []float64
	Components  []string
}

// PolicyUpdater applies a training signal to the agent's policy.
type PolicyUpdater interface {
	Update(ctx context.Context, u PolicyUpdate) error
}

// NoopPolicy records updates in the log and changes nothing.
type NoopPolicy struct {
	Logger *slog.Logger
}

func (p NoopPolicy) Update(ctx context.Context, u PolicyUpdate) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "policy update",
		"episode", u.Episode,
		"steps", len(u.StepRewards),
		"components", u.Components)
	return nil
}
