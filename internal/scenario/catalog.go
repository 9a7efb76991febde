package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed catalog/*.toml
var catalogFS embed.FS

// Ticket is a sample customer support request.
type Ticket struct {
	ID            string   `toml:"id" json:"id"`
	Query         string   `toml:"query" json:"query"`
	Category      string   `toml:"category" json:"category"`
	Complexity    string   `toml:"complexity" json:"complexity"`
	ExpectedTools []string `toml:"expected_tools" json:"expected_tools"`
}

type SupportCatalog struct {
	Tools   []string `toml:"tools" json:"tools"`
	Tickets []Ticket `toml:"tickets" json:"tickets"`
}

// Issue is a known defect planted in a review submission.
type Issue struct {
	Type        string `toml:"type" json:"type"`
	Severity    string `toml:"severity" json:"severity"`
	Description string `toml:"description" json:"description"`
}

// Submission is a sample pull request to review.
type Submission struct {
	ID              string   `toml:"id" json:"id"`
	Title           string   `toml:"title" json:"title"`
	Language        string   `toml:"language" json:"language"`
	Complexity      string   `toml:"complexity" json:"complexity"`
	Issues          []Issue  `toml:"issues" json:"issues"`
	LOC             int      `toml:"loc" json:"loc"`
	ExpectedActions []string `toml:"expected_actions" json:"expected_actions"`
}

type ReviewCatalog struct {
	Actions     []string     `toml:"actions" json:"actions"`
	Submissions []Submission `toml:"submissions" json:"submissions"`
}

// AnalysisTask is a sample data analysis assignment.
type AnalysisTask struct {
	ID                     string   `toml:"id" json:"id"`
	Title                  string   `toml:"title" json:"title"`
	Dataset                string   `toml:"dataset" json:"dataset"`
	Size                   string   `toml:"size" json:"size"`
	Complexity             string   `toml:"complexity" json:"complexity"`
	RequiredSteps          []string `toml:"required_steps" json:"required_steps"`
	ExpectedInsights       int      `toml:"expected_insights" json:"expected_insights"`
	ExpectedVisualizations int      `toml:"expected_visualizations" json:"expected_visualizations"`
}

type AnalysisCatalog struct {
	Actions []string       `toml:"actions" json:"actions"`
	Tasks   []AnalysisTask `toml:"tasks" json:"tasks"`
}

// LoadCatalog decodes the named catalog from fsys into v.
func LoadCatalog(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, path.Join("catalog", name+".toml"))
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", name, err)
	}

	if _, err := toml.Decode(string(data), v); err != nil {
		return fmt.Errorf("parsing catalog %s: %w", name, err)
	}
	return nil
}

func mustLoadCatalog[T any](name string) func() T {
	return sync.OnceValue(func() T {
		var c T
		if err := LoadCatalog(catalogFS, name, &c); err != nil {
			panic(err)
		}
		return c
	})
}

var (
	supportCatalog  = mustLoadCatalog[SupportCatalog]("customer_support")
	reviewCatalog   = mustLoadCatalog[ReviewCatalog]("code_review")
	analysisCatalog = mustLoadCatalog[AnalysisCatalog]("data_analysis")
)
