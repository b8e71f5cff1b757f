package agents

import (
	"strings"
)

// nameRule maps filename keyword patterns to a canonical display name.
// Every keyword in all must match; any needs at least one match. Rules
// are applied in order and the first hit wins.
type nameRule struct {
	canonical string
	all       []string
	any       []string
}

// nameRules defines the filename normalization table in priority order.
// More specific combinations come before broad single-keyword rules.
var nameRules = []nameRule{
	{canonical: "EBITDA Analysis", any: []string{"ebitda", "profitability", "margin"}},
	{canonical: "Annual Financial Statements", all: []string{"financial"}, any: []string{"statement", "report"}},
	{canonical: "Cash Flow Analysis", all: []string{"cash"}, any: []string{"flow", "analysis"}},
	{canonical: "Revenue Projections", any: []string{"revenue", "sales"}},
	{canonical: "Pending Litigation Summary", any: []string{"litigation", "lawsuit"}},
	{canonical: "Intellectual Property Portfolio", any: []string{"intellectual", "property", "ip"}},
	{canonical: "Employment Contracts", all: []string{"contract", "employee"}},
	{canonical: "Employment Contracts", any: []string{"employment"}},
	{canonical: "Customer Contracts (Top 10)", all: []string{"customer", "contract"}},
	{canonical: "Regulatory Compliance Report", any: []string{"compliance", "regulatory"}},
	{canonical: "Customer Acquisition Analysis", all: []string{"customer"}, any: []string{"acquisition", "cac"}},
	{canonical: "Market Analysis Report", all: []string{"market", "analysis"}},
	{canonical: "Competitive Landscape", any: []string{"competitive", "landscape"}},
	{canonical: "IT Infrastructure Overview", all: []string{"it", "infrastructure"}},
	{canonical: "Key Employee Bios", any: []string{"employee", "bios"}},
	{canonical: "Organizational Chart", any: []string{"organizational", "org"}},
	{canonical: "Product Roadmap", all: []string{"product", "roadmap"}},
}

// NormalizeDocumentName maps a raw filename to its canonical display name.
// Unrecognized filenames pass through unchanged.
func NormalizeDocumentName(filename string) string {
	nameLower := strings.ToLower(filename)

	for _, rule := range nameRules {
		if matchesNameRule(nameLower, rule) {
			return rule.canonical
		}
	}

	return filename
}

func matchesNameRule(name string, rule nameRule) bool {
	for _, kw := range rule.all {
		if !strings.Contains(name, kw) {
			return false
		}
	}
	if len(rule.any) == 0 {
		return len(rule.all) > 0
	}
	for _, kw := range rule.any {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
