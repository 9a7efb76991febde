// Package result persists training results as JSON documents.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spachava753/agentgym/internal/models"
)

// Save writes r to path as indented JSON, creating parent directories.
func Save(path string, r *models.TrainingResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating result directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// Load reads a result written by Save. The embedded config and metrics are
// validated on the way in.
func Load(path string) (*models.TrainingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}

	var r models.TrainingResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return &r, nil
}
