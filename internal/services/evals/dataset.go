package evals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is one golden question with its expected evidence.
type Case struct {
	Question         string   `yaml:"question"`
	ExpectedSources  []string `yaml:"expected_sources,omitempty"`
	ExpectedKeywords []string `yaml:"expected_keywords,omitempty"`
	Category         string   `yaml:"category,omitempty"`
}

// Dataset is a golden Q&A evaluation set loaded from YAML.
type Dataset struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// LoadDataset reads an evaluation dataset from a YAML file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(ds.Cases) == 0 {
		return nil, fmt.Errorf("dataset %s contains no cases", path)
	}

	for i, c := range ds.Cases {
		if c.Question == "" {
			return nil, fmt.Errorf("dataset case %d has no question", i)
		}
	}
	return &ds, nil
}
