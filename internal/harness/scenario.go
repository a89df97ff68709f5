package harness

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/mkrepo-labs/mkrepo/internal/naming"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// Scenario is one CLI invocation and its expected result.
type Scenario struct {
	Label       string            `yaml:"label"`
	Args        []string          `yaml:"args"`
	Env         map[string]string `yaml:"env"`
	Stdin       string            `yaml:"stdin"`
	ExpectFail  bool              `yaml:"expect_fail"`
	ProjectName string            `yaml:"project_name"`
}

// Slug is the directory and log file name derived from the label.
func (s Scenario) Slug() string {
	return naming.Sanitize(s.Label)
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios parses a scenario file and checks that every entry is
// runnable.
func LoadScenarios(data []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errors.New("no scenarios defined")
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i, s := range f.Scenarios {
		if strings.TrimSpace(s.Label) == "" {
			return nil, fmt.Errorf("scenario %d: label is required", i)
		}
		slug := s.Slug()
		if slug == "" {
			return nil, fmt.Errorf("scenario %q: label has no usable characters", s.Label)
		}
		if seen[slug] {
			return nil, fmt.Errorf("scenario %q: duplicate directory %q", s.Label, slug)
		}
		seen[slug] = true
		if !s.ExpectFail && s.ProjectName == "" {
			return nil, fmt.Errorf("scenario %q: project_name is required for a passing scenario", s.Label)
		}
	}
	return f.Scenarios, nil
}

// DefaultScenarios returns the built-in scenario matrix.
func DefaultScenarios() ([]Scenario, error) {
	return LoadScenarios(scenariosYAML)
}
