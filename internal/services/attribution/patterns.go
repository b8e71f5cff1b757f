package attribution

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var (
	bothDocsPattern  = regexp.MustCompile(`(?i)\bboth\s+(?:documents|docs|files|sources)\b`)
	countDocsPattern = regexp.MustCompile(`(?i)\b(?:first\s+|all\s+|top\s+)?(one|two|three|four|five|six|seven|eight|nine|ten|\d+)\s+(?:documents|docs|files|sources)\b`)

	// Amounts, percentages, and year-like tokens pulled from answer text.
	numericTokenPattern = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?%?`)

	nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// RequestedCount scans a question for explicit "return N documents"
// phrasing. Returns 0 when the question carries no count request.
func RequestedCount(question string) int {
	if bothDocsPattern.MatchString(question) {
		return 2
	}
	m := countDocsPattern.FindStringSubmatch(question)
	if m == nil {
		return 0
	}
	token := strings.ToLower(m[1])
	if n, ok := numberWords[token]; ok {
		return n
	}
	if n, err := strconv.Atoi(token); err == nil && n > 0 {
		return n
	}
	return 0
}

// Extension-stripped bases shorter than this are too ambiguous to count
// as a name mention ("a.txt" must not match every answer containing "a").
const minBaseNameLength = 3

// mentionedIn reports whether a document is named in the answer text. The
// filename, the normalized display name, and the filename without extension
// are tested with punctuation folded to spaces on each side. Candidates
// must match on whole-word boundaries; an incidental substring inside a
// longer word is not a mention.
func mentionedIn(answer, filename, normalizedName string) bool {
	folded := " " + foldPunctuation(answer) + " "

	candidates := []string{filename, normalizedName}
	if base := strings.TrimSuffix(filename, filepath.Ext(filename)); base != filename && len(base) >= minBaseNameLength {
		candidates = append(candidates, base)
	}

	for _, c := range candidates {
		fc := foldPunctuation(c)
		if fc == "" {
			continue
		}
		if strings.Contains(folded, " "+fc+" ") {
			return true
		}
	}
	return false
}

// numericTokens extracts the numeric tokens (amounts, percentages, counts)
// from text, deduplicated in order of first appearance.
func numericTokens(text string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range numericTokenPattern.FindAllString(text, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// significantWords returns the lowercase words of length >= 4, deduplicated.
func significantWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(foldPunctuation(text)) {
		if len(w) >= 4 {
			words[w] = true
		}
	}
	return words
}

func foldPunctuation(s string) string {
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(strings.ToLower(s), " "))
}
