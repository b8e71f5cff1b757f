package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/scrutor/internal/models"
)

func TestQuestionClassifier_Classify(t *testing.T) {
	classifier := &QuestionClassifier{}

	tests := []struct {
		name     string
		question string
		expected models.QuestionCategory
	}{
		{"how many count", "How many customers does the company have?", models.QuestionData},
		{"revenue figure", "What was the revenue last year?", models.QuestionData},
		{"growth rate", "What is the growth rate for 2024?", models.QuestionData},
		{"ebitda", "Is the EBITDA margin improving?", models.QuestionFinancial},
		{"balance sheet", "Describe the balance sheet position", models.QuestionFinancial},
		{"why analysis", "Why did churn increase?", models.QuestionAnalysis},
		{"impact analysis", "Analyze the impact of the new pricing", models.QuestionAnalysis},
		{"summary", "Give me an overview of the litigation risks", models.QuestionSummary},
		{"key points", "List the key points from the IP portfolio", models.QuestionSummary},
		{"versus", "Product A versus Product B performance", models.QuestionComparison},
		{"general fallback", "Tell me about the company", models.QuestionGeneral},
		{"empty question", "", models.QuestionGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.question))
		})
	}
}

func TestQuestionClassifier_DataOutranksFinancial(t *testing.T) {
	classifier := &QuestionClassifier{}

	// Mentions both a data keyword and a financial keyword; the data rule
	// comes first in the table.
	got := classifier.Classify("How many quarters had positive EBITDA?")
	assert.Equal(t, models.QuestionData, got)
}

func TestQuestionClassifier_CaseInsensitive(t *testing.T) {
	classifier := &QuestionClassifier{}
	assert.Equal(t, models.QuestionFinancial, classifier.Classify("WHAT ABOUT THE VALUATION?"))
}
