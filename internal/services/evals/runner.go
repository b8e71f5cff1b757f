package evals

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// A case passes when its expected sources are attributed and at least
// this share of expected keywords appear in the answer.
const keywordPassRatio = 0.5

// CaseResult scores one evaluated question.
type CaseResult struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Passed       bool     `json:"passed"`
	SourcesOK    bool     `json:"sources_ok"`
	KeywordRatio float64  `json:"keyword_ratio"`
	CategoryOK   bool     `json:"category_ok"`
	Missing      []string `json:"missing,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Report aggregates one evaluation run.
type Report struct {
	Dataset string       `json:"dataset"`
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Results []CaseResult `json:"results"`
}

// Runner replays a golden dataset through the orchestrator and scores
// the answers against expected sources and keywords.
type Runner struct {
	orchestrator interfaces.OrchestratorService
	logger       arbor.ILogger
}

func NewRunner(orchestrator interfaces.OrchestratorService, logger arbor.ILogger) *Runner {
	return &Runner{
		orchestrator: orchestrator,
		logger:       logger.WithPrefix("evals"),
	}
}

// Run evaluates every case against the documents of projectID. Individual
// failures are recorded, not propagated.
func (r *Runner) Run(ctx context.Context, projectID string, ds *Dataset) *Report {
	report := &Report{Dataset: ds.Name, Total: len(ds.Cases)}

	for _, c := range ds.Cases {
		answer, err := r.orchestrator.Ask(ctx, c.Question, projectID, nil)
		if err != nil {
			report.Results = append(report.Results, CaseResult{
				Question: c.Question,
				Error:    err.Error(),
			})
			continue
		}

		result := scoreCase(c, answer)
		if result.Passed {
			report.Passed++
		}
		report.Results = append(report.Results, result)
	}

	r.logger.Info().
		Str("dataset", ds.Name).
		Int("total", report.Total).
		Int("passed", report.Passed).
		Msg("Evaluation run complete")
	return report
}

// scoreCase checks attributed sources, answer keywords, and (when the
// case declares one) the classified category.
func scoreCase(c Case, answer *models.AnswerResult) CaseResult {
	result := CaseResult{
		Question: c.Question,
		Answer:   answer.Answer,
	}

	result.SourcesOK = true
	for _, expected := range c.ExpectedSources {
		if !sourceAttributed(expected, answer.Sources) {
			result.SourcesOK = false
			result.Missing = append(result.Missing, "source: "+expected)
		}
	}

	if len(c.ExpectedKeywords) == 0 {
		result.KeywordRatio = 1
	} else {
		aLower := strings.ToLower(answer.Answer)
		hits := 0
		for _, kw := range c.ExpectedKeywords {
			if strings.Contains(aLower, strings.ToLower(kw)) {
				hits++
			} else {
				result.Missing = append(result.Missing, "keyword: "+kw)
			}
		}
		result.KeywordRatio = float64(hits) / float64(len(c.ExpectedKeywords))
	}

	result.CategoryOK = c.Category == "" || c.Category == string(answer.QuestionType)
	result.Passed = result.SourcesOK && result.CategoryOK && result.KeywordRatio >= keywordPassRatio
	return result
}

func sourceAttributed(expected string, sources []models.Source) bool {
	eLower := strings.ToLower(expected)
	for _, s := range sources {
		if strings.Contains(strings.ToLower(s.Filename), eLower) {
			return true
		}
	}
	return false
}
