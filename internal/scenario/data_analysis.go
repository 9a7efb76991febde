package scenario

import (
	"math/rand/v2"
	"slices"

	"github.com/spachava753/agentgym/internal/models"
)

// Step keys recognised by the data analysis scenario.
const (
	KeyDataQuality        = "data_quality"
	KeyInsightAccurate    = "insight_accurate"
	KeyInsightInaccurate  = "insight_inaccurate"
	KeyVisualizationClear = "visualization_clear"
	KeyThoroughAnalysis   = "thorough_analysis"
	KeyAnalysisTime       = "analysis_time"
	KeyStatisticallyValid = "statistically_valid"
	KeyActionableInsight  = "actionable_insight"
)

// Data analysis metrics.
const (
	MetricAnalysisAccuracy     = "analysis_accuracy"
	MetricDataQuality          = "data_quality"
	MetricVisualizationQuality = "visualization_quality"
	MetricInsightQuality       = "insight_quality"
)

// Data quality grades.
const (
	QualityHigh = "high"
	QualityLow  = "low"
)

const (
	analysisSuccessReward      = 12.0
	analysisFailureReward      = -8.0
	analysisHighQuality        = 15.0
	analysisLowQuality         = -10.0
	analysisAccurateInsight    = 20.0
	analysisInaccurateInsight  = -10.0
	analysisClearVisualization = 10.0
	analysisThorough           = 12.0
	analysisSpeedBonus         = 5.0
	analysisStatisticallyValid = 8.0
	analysisActionable         = 10.0

	analysisBaselineTime     = 3600.0
	analysisBaselineAccuracy = 0.65
)

// AnalysisStep is one action taken during an analysis task. Insight and
// VisualizationClear are tri-state: nil means the step produced neither.
type AnalysisStep struct {
	Action             string
	DataQuality        string
	Insight            *bool
	VisualizationClear *bool
	ThoroughAnalysis   bool
	StatisticallyValid bool
	ActionableInsight  bool
	AnalysisTime       *float64
}

func (s AnalysisStep) Record() models.Step {
	step := models.Step{}
	if s.Action != "" {
		step[KeyAction] = s.Action
	}
	if s.DataQuality != "" {
		step[KeyDataQuality] = s.DataQuality
	}
	if s.Insight != nil {
		if *s.Insight {
			step[KeyInsightAccurate] = true
		} else {
			step[KeyInsightInaccurate] = true
		}
	}
	if s.VisualizationClear != nil {
		step[KeyVisualizationClear] = *s.VisualizationClear
	}
	setFlag(step, KeyThoroughAnalysis, s.ThoroughAnalysis)
	setFlag(step, KeyStatisticallyValid, s.StatisticallyValid)
	setFlag(step, KeyActionableInsight, s.ActionableInsight)
	if s.AnalysisTime != nil {
		step[KeyAnalysisTime] = *s.AnalysisTime
	}
	return step
}

// DataAnalysis trains agents to clean data, produce accurate insights and
// build clear visualizations.
type DataAnalysis struct {
	Base
}

func NewDataAnalysis() *DataAnalysis {
	return &DataAnalysis{}
}

func (*DataAnalysis) Info() Info {
	return Info{
		Name:        "data_analysis",
		Description: "Data analysis agent training for accurate insights and visualizations",
		Difficulty:  Intermediate,
	}
}

func (*DataAnalysis) CreateEnvironment() Environment {
	c := analysisCatalog()
	return Environment{
		Type:    "data_analysis",
		Actions: slices.Clone(c.Actions),
		Catalog: c.Tasks,
		Baselines: map[string]float64{
			BaselineTime:     analysisBaselineTime,
			BaselineAccuracy: analysisBaselineAccuracy,
		},
	}
}

func (*DataAnalysis) BroadcastRewards(t *models.Trajectory) []float64 {
	return broadcast(t, analysisSuccessReward, analysisFailureReward, func(step models.Step) float64 {
		var bonus float64
		switch quality, _ := step.String(KeyDataQuality); quality {
		case QualityHigh:
			bonus += analysisHighQuality
		case QualityLow:
			bonus += analysisLowQuality
		}
		if step.Bool(KeyInsightAccurate) {
			bonus += analysisAccurateInsight
		} else if step.Bool(KeyInsightInaccurate) {
			bonus += analysisInaccurateInsight
		}
		if step.Bool(KeyVisualizationClear) {
			bonus += analysisClearVisualization
		}
		if step.Bool(KeyThoroughAnalysis) {
			bonus += analysisThorough
		}
		if elapsed, ok := step.Float(KeyAnalysisTime); ok {
			bonus += linearBonus(analysisSpeedBonus, analysisBaselineTime, elapsed)
		}
		if step.Bool(KeyStatisticallyValid) {
			bonus += analysisStatisticallyValid
		}
		if step.Bool(KeyActionableInsight) {
			bonus += analysisActionable
		}
		return bonus
	})
}

func (*DataAnalysis) SuccessCriteria() map[string]float64 {
	return map[string]float64{
		MetricAnalysisAccuracy:     0.85,
		MetricDataQuality:          0.90,
		MetricInsightQuality:       0.80,
		MetricVisualizationQuality: 0.85,
	}
}

func (*DataAnalysis) CalculateMetrics(trajectories []*models.Trajectory) Metrics {
	m := BaselineMetrics(trajectories)

	var insights, accurate, actionable int
	var qualitySteps, highQuality int
	var visualizations, clear int
	for _, t := range trajectories {
		for _, step := range t.Steps {
			if step.Bool(KeyInsightAccurate) || step.Bool(KeyInsightInaccurate) {
				insights++
				if step.Bool(KeyInsightAccurate) {
					accurate++
				}
			}
			if step.Has(KeyDataQuality) {
				qualitySteps++
				if q, _ := step.String(KeyDataQuality); q == QualityHigh {
					highQuality++
				}
			}
			if step.Has(KeyVisualizationClear) {
				visualizations++
				if step.Bool(KeyVisualizationClear) {
					clear++
				}
			}
			if step.Bool(KeyActionableInsight) {
				actionable++
			}
		}
	}

	m.Domain[MetricAnalysisAccuracy] = ratio(accurate, insights)
	m.Domain[MetricDataQuality] = ratio(highQuality, qualitySteps)
	m.Domain[MetricVisualizationQuality] = ratio(clear, visualizations)
	m.Domain[MetricInsightQuality] = ratio(actionable, insights)
	return m
}

// SimulateEpisode walks the required steps of one analysis task, emitting
// insights and visualizations as the task expects them.
func (*DataAnalysis) SimulateEpisode(rng *rand.Rand, skill float64, maxSteps int) *models.Trajectory {
	tasks := analysisCatalog().Tasks
	task := tasks[rng.IntN(len(tasks))]
	success := rng.Float64() < skill
	elapsed := func() *float64 {
		v := 120 + rng.Float64()*1080
		return &v
	}
	chance := func(p float64) bool { return rng.Float64() < p }

	steps := make([]models.Step, 0, len(task.RequiredSteps)+task.ExpectedInsights)
	for _, action := range task.RequiredSteps {
		s := AnalysisStep{Action: action, AnalysisTime: elapsed()}
		switch action {
		case "clean_data", "handle_missing_values", "remove_duplicates":
			s.DataQuality = QualityLow
			if chance(skill) {
				s.DataQuality = QualityHigh
			}
		case "create_visualization":
			for range task.ExpectedVisualizations - 1 {
				clearViz := chance(skill)
				steps = append(steps, AnalysisStep{Action: action, VisualizationClear: &clearViz, AnalysisTime: elapsed()}.Record())
			}
			clearViz := chance(skill)
			s.VisualizationClear = &clearViz
		case "generate_insights", "generate_report":
			for range task.ExpectedInsights - 1 {
				steps = append(steps, insightStep(action, chance, skill, elapsed()).Record())
			}
			s = insightStep(action, chance, skill, elapsed())
			s.ThoroughAnalysis = success
		}
		steps = append(steps, s.Record())
	}
	steps = truncate(steps, maxSteps)

	analysisTime := sumStepField(steps, KeyAnalysisTime)
	return &models.Trajectory{
		Steps:       steps,
		TotalReward: outcomeTotal(success, len(steps)),
		Success:     success,
		Metadata: map[string]any{
			"task_id":       task.ID,
			"tokens_used":   float64(150 * len(steps)),
			"response_time": analysisTime,
		},
	}
}

func insightStep(action string, chance func(float64) bool, skill float64, elapsed *float64) AnalysisStep {
	accurate := chance(skill)
	return AnalysisStep{
		Action:             action,
		Insight:            &accurate,
		StatisticallyValid: accurate && chance(skill),
		ActionableInsight:  accurate && chance(skill),
		AnalysisTime:       elapsed,
	}
}
