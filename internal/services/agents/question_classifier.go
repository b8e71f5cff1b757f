package agents

import (
	"strings"

	"github.com/ternarybob/scrutor/internal/models"
)

// QuestionClassifier classifies questions by keyword matching WITHOUT
// making LLM calls - fast, deterministic routing for agent dispatch.
// The category decides which specialist agents run alongside the
// document agent.
type QuestionClassifier struct{}

// questionRule defines a single classification rule
type questionRule struct {
	name     string   // Rule identifier
	category models.QuestionCategory
	keywords []string // Any substring match triggers the rule
}

// questionRules defines all rules in priority order (first match wins).
// Data outranks financial, financial outranks analysis, and so on; a
// question mentioning both "how many" and "ebitda" is a data question.
var questionRules = []questionRule{
	{
		name:     "data-metrics",
		category: models.QuestionData,
		keywords: []string{
			"how many", "how much", "what is the", "calculate",
			"total", "revenue", "profit", "growth rate", "percentage",
		},
	},
	{
		name:     "financial",
		category: models.QuestionFinancial,
		keywords: []string{
			"financial", "earnings", "ebitda", "margin",
			"valuation", "balance sheet",
		},
	},
	{
		name:     "analysis",
		category: models.QuestionAnalysis,
		keywords: []string{
			"analyze", "compare", "difference", "contrast",
			"why", "how", "impact", "effect",
		},
	},
	{
		name:     "summary",
		category: models.QuestionSummary,
		keywords: []string{
			"summarize", "summary", "overview", "key points",
			"main", "highlights",
		},
	},
	{
		name:     "comparison",
		category: models.QuestionComparison,
		keywords: []string{
			"versus", "vs", "compare", "comparison", "difference",
		},
	},
}

// Classify returns the question category for agent dispatch. Unmatched
// questions default to the general category.
func (c *QuestionClassifier) Classify(question string) models.QuestionCategory {
	qLower := strings.ToLower(question)

	for _, rule := range questionRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(qLower, keyword) {
				return rule.category
			}
		}
	}

	return models.QuestionGeneral
}
