package orchestrator

import (
	"strings"

	"github.com/ternarybob/scrutor/internal/models"
)

// Outputs whose key-term match ratio exceeds this survive the filter.
const relevanceThreshold = 0.4

const minKeyTermLength = 4

// stopWords are excluded from question key terms. Only words of
// minKeyTermLength or more are considered, so shorter function words
// never reach this set.
var stopWords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true, "whose": true,
	"this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "have": true, "has": true, "does": true,
	"about": true, "there": true, "their": true, "them": true, "they": true,
	"will": true, "would": true, "could": true, "should": true,
	"been": true, "being": true, "were": true, "your": true,
	"please": true, "tell": true, "give": true, "show": true,
}

// keyTerms extracts the significant lowercase words from a question.
func keyTerms(question string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,!?:;\"'()[]")
		if len(w) >= minKeyTermLength && !stopWords[w] {
			terms = append(terms, w)
		}
	}
	return terms
}

// filterRelevant drops agent outputs with little lexical overlap with the
// question. The document agent's output always survives, and if the filter
// would discard everything the outputs pass through unfiltered.
func filterRelevant(question string, outputs []models.AgentOutput) []models.AgentOutput {
	terms := keyTerms(question)

	var kept []models.AgentOutput
	for _, out := range outputs {
		if out.Agent == models.AgentDocument {
			kept = append(kept, out)
			continue
		}
		if outputRelevance(out.Content, terms) > relevanceThreshold {
			kept = append(kept, out)
		}
	}

	if len(kept) == 0 {
		return outputs
	}
	return kept
}

// outputRelevance is the fraction of question key terms present in the
// output text.
func outputRelevance(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	cLower := strings.ToLower(content)
	matches := 0
	for _, term := range terms {
		if strings.Contains(cLower, term) {
			matches++
		}
	}
	return float64(matches) / float64(len(terms))
}
