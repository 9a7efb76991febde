package models

import "errors"

var (
	ErrInvalidConfig        = errors.New("invalid training config")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrRegistryConflict     = errors.New("scenario registry conflict")
	ErrMetricOutOfRange     = errors.New("metric out of range")
	ErrDegenerateTrajectory = errors.New("degenerate trajectory")
	ErrNoScenario           = errors.New("no scenario available")
	ErrTrainerNotIdle       = errors.New("trainer is not idle")
)

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Construction phase
	ErrTypeConfigInvalid     ErrorType = "config_invalid"
	ErrTypeMetricOutOfRange  ErrorType = "metric_out_of_range"
	ErrTypeTrajectoryInvalid ErrorType = "trajectory_invalid"

	// Scenario resolution
	ErrTypeScenarioNotFound ErrorType = "scenario_not_found"
	ErrTypeRegistryConflict ErrorType = "registry_conflict"

	// Training
	ErrTypeTrainerState ErrorType = "trainer_state"

	// Catch-all
	ErrTypeInternal ErrorType = "internal_error"
)

// Classify maps err onto its ErrorType.
func Classify(err error) ErrorType {
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ErrTypeConfigInvalid
	case errors.Is(err, ErrMetricOutOfRange):
		return ErrTypeMetricOutOfRange
	case errors.Is(err, ErrDegenerateTrajectory):
		return ErrTypeTrajectoryInvalid
	case errors.Is(err, ErrScenarioNotFound), errors.Is(err, ErrNoScenario):
		return ErrTypeScenarioNotFound
	case errors.Is(err, ErrRegistryConflict):
		return ErrTypeRegistryConflict
	case errors.Is(err, ErrTrainerNotIdle):
		return ErrTypeTrainerState
	default:
		return ErrTypeInternal
	}
}
