package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/scrutor/internal/models"
)

func TestMentionedIn_WordBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		answer         string
		filename       string
		normalizedName string
		expected       bool
	}{
		{
			name:           "normalized name mentioned",
			answer:         "According to the EBITDA Analysis, margins grew.",
			filename:       "ebitda_analysis.txt",
			normalizedName: "EBITDA Analysis",
			expected:       true,
		},
		{
			name:           "filename base mentioned",
			answer:         "Per cash_flow_analysis, operating cash flow grew.",
			filename:       "cash_flow_analysis.txt",
			normalizedName: "Cash Flow Analysis",
			expected:       true,
		},
		{
			name:           "mention at start of answer",
			answer:         "Revenue Projections show $20M by FY26.",
			filename:       "revenue_projections.txt",
			normalizedName: "Revenue Projections",
			expected:       true,
		},
		{
			name:           "single-letter base does not match arbitrary text",
			answer:         "unrelated reply",
			filename:       "a.txt",
			normalizedName: "Doc A",
			expected:       false,
		},
		{
			name:           "single-letter base does not match a standalone article",
			answer:         "a strong quarter overall",
			filename:       "a.txt",
			normalizedName: "Alpha Overview",
			expected:       false,
		},
		{
			name:           "substring inside a longer word is not a mention",
			answer:         "The summary covers operations.",
			filename:       "summ.txt",
			normalizedName: "Summ",
			expected:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mentionedIn(tt.answer, tt.filename, tt.normalizedName))
		})
	}
}

func TestExtractSources_IncidentalSubstringDoesNotClaimMention(t *testing.T) {
	// "a" appears as a word in the answer but a.txt is not being named, so
	// attribution must fall through to chunk accounting instead of claiming
	// a 0.95 explicit mention for Doc A.
	retrieved := []models.SearchResult{
		chunk("doc_1", "a.txt", "Doc A", "operations summary", 0.9),
		chunk("doc_2", "b.txt", "Doc B", "revenue detail", 0.4),
	}

	sources := newEngine().ExtractSources(
		"How was the quarter?",
		"It was a strong quarter overall.",
		retrieved, nil)

	require.Len(t, sources, 2)
	assert.Equal(t, "Doc A", sources[0].Filename)
	assert.NotEqual(t, singleMentionRelevance, sources[0].Relevance)
}
