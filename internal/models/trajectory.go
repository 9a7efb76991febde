package models

import (
	"encoding/json"
)

// Step is a single step record of a trajectory. Keys are scenario specific;
// an absent key is treated the same as a false or missing value.
type Step map[string]any

// Has reports whether the step carries key at all.
func (s Step) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Bool returns the boolean stored under key. Non-boolean values are false.
func (s Step) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// String returns the string stored under key.
func (s Step) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// Float returns the numeric value stored under key, accepting any Go
// numeric type as well as json.Number.
func (s Step) Float(key string) (float64, bool) {
	return toFloat(s[key])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Trajectory is the record of one training episode.
type Trajectory struct {
	Steps       []Step         `json:"steps"`
	TotalReward float64        `json:"total_reward"`
	Success     bool           `json:"success"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Len returns the number of steps.
func (t *Trajectory) Len() int {
	return len(t.Steps)
}

// MetadataFloat returns the numeric metadata value under key, or def when
// it is absent or not a number.
func (t *Trajectory) MetadataFloat(key string, def float64) float64 {
	if f, ok := toFloat(t.Metadata[key]); ok {
		return f
	}
	return def
}

// MetadataBool returns the boolean metadata value under key.
func (t *Trajectory) MetadataBool(key string) bool {
	b, _ := t.Metadata[key].(bool)
	return b
}

// Validate reports ErrDegenerateTrajectory for trajectories that cannot
// carry a training signal: no steps, or a nil step record.
func (t *Trajectory) Validate() error {
	if t == nil || len(t.Steps) == 0 {
		return ErrDegenerateTrajectory
	}
	for _, s := range t.Steps {
		if s == nil {
			return ErrDegenerateTrajectory
		}
	}
	return nil
}
