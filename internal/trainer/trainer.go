// Package trainer runs the episode loop that trains an agent against a
// scenario.
package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/spachava753/agentgym/internal/config"
	"github.com/spachava753/agentgym/internal/models"
	"github.com/spachava753/agentgym/internal/scenario"
)

// State is the lifecycle state of a Trainer.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Option configures a Trainer.
type Option func(*Trainer)

// WithScenario trains against s instead of resolving the configured name.
func WithScenario(s scenario.Scenario) Option {
	return func(t *Trainer) { t.scenario = s }
}

// WithRegistry resolves the configured scenario name in r.
func WithRegistry(r *scenario.Registry) Option {
	return func(t *Trainer) { t.registry = r }
}

func WithSynthesizer(s Synthesizer) Option {
	return func(t *Trainer) { t.synth = s }
}

func WithPolicy(p PolicyUpdater) Option {
	return func(t *Trainer) { t.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithCheckpointDir enables checkpoints every checkpoint_interval episodes.
func WithCheckpointDir(dir string) Option {
	return func(t *Trainer) { t.checkpointDir = dir }
}

// Trainer drives one scenario through the configured number of episodes.
// A Trainer runs once; create a new one for every session.
type Trainer struct {
	cfg           models.TrainingConfig
	scenario      scenario.Scenario
	registry      *scenario.Registry
	synth         Synthesizer
	policy        PolicyUpdater
	logger        *slog.Logger
	checkpointDir string

	mu           sync.Mutex
	state        State
	runID        string
	trajectories []*models.Trajectory
	history      []HistoryEntry
	rewards      []float64
}

// New validates cfg and resolves the scenario. Without WithScenario the
// configured name is looked up in the registry, which defaults to the
// built-in scenarios.
func New(cfg models.TrainingConfig, opts ...Option) (*Trainer, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:   cfg,
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.synth == nil {
		t.synth = SimulatedSynthesizer{}
	}
	if t.policy == nil {
		t.policy = NoopPolicy{Logger: t.logger}
	}

	if t.scenario == nil {
		if t.registry == nil {
			t.registry = scenario.NewRegistry()
		}
		s, err := t.registry.Load(cfg.Scenario)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrNoScenario, err)
		}
		t.scenario = s
	}
	return t, nil
}

// Config returns the validated training config.
func (t *Trainer) Config() models.TrainingConfig {
	return t.cfg
}

func (t *Trainer) Scenario() scenario.Scenario {
	return t.scenario
}

func (t *Trainer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Trajectories returns the trajectories collected so far, in episode order.
func (t *Trainer) Trajectories() []*models.Trajectory {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*models.Trajectory(nil), t.trajectories...)
}

// MetricsHistory returns the periodic metrics snapshots taken so far.
func (t *Trainer) MetricsHistory() []HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]HistoryEntry(nil), t.history...)
}

// ModelPath is where the trained policy for cfg is stored.
func ModelPath(cfg models.TrainingConfig) string {
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_ep%d", cfg.Scenario, cfg.Framework, cfg.Episodes))
}

// Train runs every episode and returns the result. Cancelling ctx stops
// the run between episodes.
func (t *Trainer) Train(ctx context.Context) (*models.TrainingResult, error) {
	t.mu.Lock()
	if t.state != StateIdle {
		state := t.state
		t.mu.Unlock()
		return nil, goerr.Wrap(models.ErrTrainerNotIdle, "trainer already used", goerr.V("state", state))
	}
	t.state = StateRunning
	t.runID = newRunID()
	t.mu.Unlock()

	res, err := t.run(ctx)

	t.mu.Lock()
	if err != nil {
		t.state = StateFailed
	} else {
		t.state = StateCompleted
	}
	t.mu.Unlock()

	if err != nil {
		t.logger.Error("training failed", "run_id", t.runID, "error", err)
		return nil, err
	}
	return res, nil
}

func (t *Trainer) run(ctx context.Context) (*models.TrainingResult, error) {
	startTime := time.Now()
	info := t.scenario.Info()
	t.logger.Info("training started",
		"run_id", t.runID,
		"scenario", info.Name,
		"framework", t.cfg.Framework,
		"episodes", t.cfg.Episodes,
		"concurrency", t.cfg.Concurrency)

	env := t.scenario.CreateEnvironment()
	components := trainable(t.scenario.TrainableComponents())
	interval := historyInterval(t.cfg.Episodes)

	var seed uint64
	if t.cfg.Seed != nil {
		seed = uint64(*t.cfg.Seed)
	}

	batchSize := min(t.cfg.Concurrency, t.cfg.Episodes)
	for start := 0; start < t.cfg.Episodes; start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+batchSize, t.cfg.Episodes)
		batch, err := t.synthesize(ctx, start, end, seed, env)
		if err != nil {
			return nil, err
		}

		for i, traj := range batch {
			episode := start + i
			if err := t.step(ctx, episode, traj, components); err != nil {
				return nil, err
			}

			done := episode + 1
			if done%interval == 0 {
				t.trackMetrics(done)
			}
			if t.checkpointDir != "" && t.cfg.CheckpointInterval > 0 && done%t.cfg.CheckpointInterval == 0 {
				if err := t.checkpoint(done); err != nil {
					return nil, err
				}
			}
		}
	}

	return t.finish(time.Since(startTime))
}

// synthesize collects episodes [start, end) concurrently. The returned
// slice is in episode order.
func (t *Trainer) synthesize(ctx context.Context, start, end int, seed uint64, env scenario.Environment) ([]*models.Trajectory, error) {
	out := make([]*models.Trajectory, end-start)

	g, ctx := errgroup.WithContext(ctx)
	for i := range out {
		g.Go(func() error {
			traj, err := t.synth.Synthesize(ctx, Episode{
				Index:       start + i,
				Episodes:    t.cfg.Episodes,
				Seed:        seed,
				MaxSteps:    t.cfg.MaxStepsPerEpisode,
				Scenario:    t.scenario,
				Environment: env,
			})
			if err != nil {
				return fmt.Errorf("synthesizing episode %d: %w", start+i, err)
			}
			if !t.scenario.ValidateTrajectory(traj) {
				return goerr.Wrap(models.ErrDegenerateTrajectory, "synthesized trajectory rejected", goerr.V("episode", start+i))
			}
			out[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Trainer) step(ctx context.Context, episode int, traj *models.Trajectory, components []string) error {
	t.mu.Lock()
	t.trajectories = append(t.trajectories, traj)
	t.mu.Unlock()

	rewards := t.scenario.BroadcastRewards(traj)
	t.rewards = append(t.rewards, rewards...)

	t.logger.Debug("episode completed",
		"episode", episode+1,
		"success", traj.Success,
		"steps", traj.Len(),
		"total_reward", traj.TotalReward)

	err := t.policy.Update(ctx, PolicyUpdate{
		Episode:     episode,
		Trajectory:  traj,
		StepRewards: rewards,
		Components:  components,
	})
	if err != nil {
		return fmt.Errorf("updating policy at episode %d: %w", episode+1, err)
	}
	return nil
}

func (t *Trainer) trackMetrics(episode int) {
	t.mu.Lock()
	window := recent(t.trajectories)
	t.mu.Unlock()

	m := t.scenario.CalculateMetrics(window)

	t.mu.Lock()
	t.history = append(t.history, HistoryEntry{Episode: episode, Metrics: m})
	t.mu.Unlock()

	level := slog.LevelDebug
	if t.cfg.Verbose {
		level = slog.LevelInfo
	}
	t.logger.Log(context.Background(), level, "training progress",
		"episode", episode,
		"episodes", t.cfg.Episodes,
		"tool_reliability", m.ToolReliability,
		"final_reward", m.FinalReward)
}

func (t *Trainer) finish(elapsed time.Duration) (*models.TrainingResult, error) {
	trajectories := t.Trajectories()
	final := t.scenario.CalculateMetrics(trajectories)
	final.TotalTrainingTime = elapsed.Seconds()

	metrics := toTrainingMetrics(final, len(trajectories))
	if err := metrics.Validate(); err != nil {
		return nil, err
	}

	res := models.NewTrainingResult(t.cfg, metrics, ModelPath(t.cfg), map[string]any{
		"run_id":             t.runID,
		"trajectories_count": len(trajectories),
		"metrics_history":    t.MetricsHistory(),
		"reward_summary":     summarize(t.rewards),
	})

	t.logger.Info("training completed",
		"run_id", t.runID,
		"episodes", metrics.EpisodesCompleted,
		"tool_reliability", metrics.ToolReliability,
		"duration", elapsed)
	return res, nil
}

// RewardSummary describes the broadcast per-step rewards of a run.
type RewardSummary struct {
	Steps int     `json:"steps"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func summarize(rewards []float64) RewardSummary {
	s := RewardSummary{Steps: len(rewards)}
	if len(rewards) == 0 {
		return s
	}
	s.Mean, _ = stats.Mean(rewards)
	s.Min, _ = stats.Min(rewards)
	s.Max, _ = stats.Max(rewards)
	return s
}

// trainable lists the enabled components in canonical order.
func trainable(components map[string]bool) []string {
	var out []string
	for _, c := range scenario.Components {
		if components[c] {
			out = append(out, c)
		}
	}
	return out
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// RunFromConfig loads a training config file and trains it with the
// given options.
func RunFromConfig(ctx context.Context, path string, opts ...Option) (*models.TrainingResult, error) {
	cfg, err := config.LoadTrainingConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading training config: %w", err)
	}

	t, err := New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trainer: %w", err)
	}
	return t.Train(ctx)
}
