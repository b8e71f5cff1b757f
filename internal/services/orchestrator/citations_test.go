package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCitations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"bracketed source",
			"EBITDA was $4.6M [Source: EBITDA Analysis].",
			"EBITDA was $4.6M.",
		},
		{
			"parenthesized source",
			"Revenue grew 20% (Source: revenue_projections.txt) last year.",
			"Revenue grew 20% last year.",
		},
		{
			"document marker",
			"Margins improved [Document: EBITDA Analysis] to 23%.",
			"Margins improved to 23%.",
		},
		{
			"from marker",
			"Cash flow was positive [From: Cash Flow Analysis].",
			"Cash flow was positive.",
		},
		{
			"trailing source line",
			"EBITDA was $4.6M.\nSource: EBITDA Analysis",
			"EBITDA was $4.6M.",
		},
		{
			"double period after removal",
			"EBITDA was $4.6M. [Source: x].",
			"EBITDA was $4.6M.",
		},
		{
			"no citations untouched",
			"EBITDA was $4.6M in FY24.",
			"EBITDA was $4.6M in FY24.",
		},
		{
			"whitespace collapsed",
			"EBITDA  was   $4.6M.",
			"EBITDA was $4.6M.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCitations(tt.input))
		})
	}
}
