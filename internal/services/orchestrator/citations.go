package orchestrator

import (
	"regexp"
	"strings"
)

// Inline citation shapes the model emits despite being told not to.
// Attribution has already consumed the raw answer, so these carry no
// information the caller keeps.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[Source:[^\]]*\]`),
	regexp.MustCompile(`\(Source:[^)]*\)`),
	regexp.MustCompile(`\[Document:[^\]]*\]`),
	regexp.MustCompile(`\[From:[^\]]*\]`),
	regexp.MustCompile(`(?m)^\s*Source:.*$`),
}

var (
	multiSpacePattern   = regexp.MustCompile(`[ \t]+`)
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	spaceBeforeDot      = regexp.MustCompile(`\s+\.`)
	doubleDotPattern    = regexp.MustCompile(`\.\.+`)
)

// stripCitations removes inline citation markers from an answer and
// tidies the whitespace and punctuation the removal leaves behind.
func stripCitations(answer string) string {
	result := answer
	for _, p := range citationPatterns {
		result = p.ReplaceAllString(result, "")
	}

	result = spaceBeforeDot.ReplaceAllString(result, ".")
	result = doubleDotPattern.ReplaceAllString(result, ".")
	result = multiSpacePattern.ReplaceAllString(result, " ")
	result = multiNewlinePattern.ReplaceAllString(result, "\n\n")

	var lines []string
	for _, line := range strings.Split(result, "\n") {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
