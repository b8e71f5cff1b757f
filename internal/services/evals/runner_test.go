package evals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/models"
)

type fakeOrchestrator struct {
	answers map[string]*models.AnswerResult
	err     error
}

func (f *fakeOrchestrator) Ask(ctx context.Context, question, projectID string, docIDs []string) (*models.AnswerResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.answers[question]; ok {
		return r, nil
	}
	return &models.AnswerResult{Question: question, Answer: "no idea"}, nil
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.yaml")
	content := `name: diligence-smoke
cases:
  - question: What was EBITDA?
    expected_sources: [EBITDA Analysis]
    expected_keywords: ["4.6"]
    category: data
  - question: Summarize the litigation risks
    expected_keywords: [litigation]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, "diligence-smoke", ds.Name)
	require.Len(t, ds.Cases, 2)
	assert.Equal(t, []string{"EBITDA Analysis"}, ds.Cases[0].ExpectedSources)
	assert.Equal(t, "data", ds.Cases[0].Category)
}

func TestLoadDataset_RejectsEmptyAndInvalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: x\ncases: []\n"), 0o644))
	_, err := LoadDataset(empty)
	require.Error(t, err)

	noQuestion := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(noQuestion, []byte("cases:\n  - expected_keywords: [x]\n"), 0o644))
	_, err = LoadDataset(noQuestion)
	require.Error(t, err)

	_, err = LoadDataset(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestRun_ScoresCases(t *testing.T) {
	orch := &fakeOrchestrator{answers: map[string]*models.AnswerResult{
		"What was EBITDA?": {
			Answer:       "EBITDA was $4.6M in FY24.",
			Sources:      []models.Source{{Filename: "EBITDA Analysis", Relevance: 0.95}},
			QuestionType: models.QuestionData,
		},
	}}
	runner := NewRunner(orch, arbor.NewLogger())

	ds := &Dataset{Name: "smoke", Cases: []Case{
		{
			Question:         "What was EBITDA?",
			ExpectedSources:  []string{"EBITDA Analysis"},
			ExpectedKeywords: []string{"4.6", "FY24"},
			Category:         "data",
		},
		{
			Question:         "What is the churn rate?",
			ExpectedKeywords: []string{"churn"},
		},
	}}

	report := runner.Run(context.Background(), "proj_default", ds)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Passed)

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Passed)
	assert.Equal(t, 1.0, report.Results[0].KeywordRatio)

	assert.False(t, report.Results[1].Passed)
	assert.Contains(t, report.Results[1].Missing, "keyword: churn")
}

func TestRun_RecordsOrchestratorErrors(t *testing.T) {
	runner := NewRunner(&fakeOrchestrator{err: fmt.Errorf("search failed")}, arbor.NewLogger())

	report := runner.Run(context.Background(), "proj_default", &Dataset{
		Name:  "smoke",
		Cases: []Case{{Question: "q"}},
	})

	assert.Equal(t, 0, report.Passed)
	require.Len(t, report.Results, 1)
	assert.Contains(t, report.Results[0].Error, "search failed")
}
