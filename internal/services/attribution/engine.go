package attribution

import (
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/models"
)

// Relevance values are heuristic confidence indicators in [0, 0.95], not
// normalized probabilities.
const (
	MaxRelevance = 0.95

	// A single explicitly named document is the strongest signal.
	singleMentionRelevance = 0.95

	// Multiple mentioned documents start here and gain from similarity.
	multiMentionBase      = 0.70
	multiMentionSimWeight = 0.25

	// Last-resort attribution when no signal distinguishes documents.
	lastResortRelevance = 0.50

	// Scoring-fallback weights.
	scoreAnswerMention  = 10
	scoreNumericMatch   = 5
	scoreWordOverlap    = 1
	scoreHighSimilarity = 2
	scoreMidSimilarity  = 1
	highSimilarity      = 0.8
	midSimilarity       = 0.6

	// Runner-up must reach this share of the top score to be returned too.
	runnerUpShare = 0.7

	overlapThreshold   = 5
	candidateNameLimit = 3
)

// docTally aggregates the retrieved chunks belonging to one document.
type docTally struct {
	filename  string
	name      string
	count     int
	maxSim    float64
	firstRank int
	text      strings.Builder
}

// Engine decides which retrieved documents informed a synthesized answer.
// The model's own text is not trusted to self-cite, so attribution works
// from the retrieval record and deterministic matching rules.
type Engine struct {
	logger arbor.ILogger
}

func NewEngine(logger arbor.ILogger) *Engine {
	return &Engine{logger: logger.WithPrefix("attribution")}
}

// ExtractSources attributes the answer to source documents. candidates is
// the document agent's relevant-source list, used as a late fallback. With
// non-empty retrieved context the result is never empty.
func (e *Engine) ExtractSources(question, answer string, retrieved []models.SearchResult, candidates []string) []models.Source {
	if len(retrieved) == 0 {
		return nil
	}

	requested := RequestedCount(question)
	tallies := tallyByDocument(retrieved)

	// An explicit numeric request outranks incidental name matches, so the
	// single-name branch is suppressed when two or more were asked for.
	if requested < 2 {
		if sources := e.explicitMentions(answer, tallies, requested); sources != nil {
			return sources
		}
	}

	if hasRankingSignal(tallies) || requested > 0 {
		return e.chunkFallback(tallies, requested)
	}

	if sources := e.scoringFallback(answer, tallies, candidates); sources != nil {
		return sources
	}

	// Last resort: the highest-similarity retrieved document.
	top := tallies[0]
	for _, t := range tallies[1:] {
		if t.maxSim > top.maxSim {
			top = t
		}
	}
	return []models.Source{{Filename: top.name, Relevance: lastResortRelevance}}
}

// explicitMentions returns attribution based on document names appearing in
// the answer text, or nil when no document is mentioned.
func (e *Engine) explicitMentions(answer string, tallies []*docTally, requested int) []models.Source {
	var matched []*docTally
	for _, t := range tallies {
		if mentionedIn(answer, t.filename, t.name) {
			matched = append(matched, t)
		}
	}

	switch {
	case len(matched) == 0:
		return nil
	case len(matched) == 1:
		return []models.Source{{Filename: matched[0].name, Relevance: singleMentionRelevance}}
	}

	// Multiple mentions: rank by chunk contribution, then relevance.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].count != matched[j].count {
			return matched[i].count > matched[j].count
		}
		return matched[i].maxSim > matched[j].maxSim
	})
	if requested > 0 && requested < len(matched) {
		matched = matched[:requested]
	}

	sources := make([]models.Source, 0, len(matched))
	for _, t := range matched {
		sources = append(sources, models.Source{
			Filename:  t.name,
			Relevance: clampRelevance(multiMentionBase + multiMentionSimWeight*t.maxSim),
		})
	}
	return sources
}

// chunkFallback attributes by chunk-contribution count when no document is
// named in the answer.
func (e *Engine) chunkFallback(tallies []*docTally, requested int) []models.Source {
	ordered := make([]*docTally, len(tallies))
	copy(ordered, tallies)

	if requested > 0 {
		// "First N documents" means retrieval order, not contribution order.
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].firstRank < ordered[j].firstRank
		})
		if requested < len(ordered) {
			ordered = ordered[:requested]
		}
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].count != ordered[j].count {
				return ordered[i].count > ordered[j].count
			}
			if ordered[i].maxSim != ordered[j].maxSim {
				return ordered[i].maxSim > ordered[j].maxSim
			}
			return ordered[i].firstRank < ordered[j].firstRank
		})
	}

	sources := make([]models.Source, 0, len(ordered))
	for _, t := range ordered {
		sources = append(sources, models.Source{Filename: t.name, Relevance: clampRelevance(t.maxSim)})
	}
	return sources
}

// scoringFallback ranks documents by textual affinity with the answer when
// chunk counts and similarity scores carry no ranking signal.
func (e *Engine) scoringFallback(answer string, tallies []*docTally, candidates []string) []models.Source {
	answerNumbers := numericTokens(answer)
	answerWords := significantWords(answer)

	type scored struct {
		tally    *docTally
		score    int
		numbers  int
		overlaps int
	}

	var all []scored
	for _, t := range tallies {
		docText := t.text.String()
		docWords := significantWords(docText)

		s := scored{tally: t}
		if mentionedIn(answer, t.filename, t.name) {
			s.score += scoreAnswerMention
		}
		for _, num := range answerNumbers {
			if strings.Contains(docText, num) {
				s.numbers++
				s.score += scoreNumericMatch
			}
		}
		for w := range answerWords {
			if docWords[w] {
				s.overlaps++
				s.score += scoreWordOverlap
			}
		}
		switch {
		case t.maxSim >= highSimilarity:
			s.score += scoreHighSimilarity
		case t.maxSim >= midSimilarity:
			s.score += scoreMidSimilarity
		}
		all = append(all, s)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].tally.firstRank < all[j].tally.firstRank
	})

	toSources := func(picked []scored) []models.Source {
		sources := make([]models.Source, 0, len(picked))
		for _, s := range picked {
			sources = append(sources, models.Source{
				Filename:  s.tally.name,
				Relevance: clampRelevance(lastResortRelevance + float64(s.score)/100),
			})
		}
		return sources
	}

	// Documents confirming the answer's numbers win outright.
	var withNumbers []scored
	for _, s := range all {
		if s.numbers > 0 {
			withNumbers = append(withNumbers, s)
		}
	}
	if len(withNumbers) > 0 {
		return toSources(withNumbers)
	}

	var withOverlap []scored
	for _, s := range all {
		if s.overlaps >= overlapThreshold {
			withOverlap = append(withOverlap, s)
		}
	}
	if len(withOverlap) > 0 {
		return toSources(withOverlap)
	}

	if len(all) > 0 && all[0].score > 0 {
		picked := all[:1]
		if len(all) > 1 && float64(all[1].score) >= runnerUpShare*float64(all[0].score) {
			picked = all[:2]
		}
		return toSources(picked)
	}

	if len(candidates) > 0 {
		limit := len(candidates)
		if limit > candidateNameLimit {
			limit = candidateNameLimit
		}
		sources := make([]models.Source, 0, limit)
		for _, name := range candidates[:limit] {
			sources = append(sources, models.Source{Filename: name, Relevance: lastResortRelevance})
		}
		return sources
	}

	return nil
}

// tallyByDocument aggregates chunks per normalized document name,
// preserving retrieval order for deterministic tie-breaks.
func tallyByDocument(retrieved []models.SearchResult) []*docTally {
	byName := make(map[string]*docTally)
	var ordered []*docTally
	for i, r := range retrieved {
		name := r.NormalizedName
		if name == "" {
			name = r.Filename
		}
		t, ok := byName[name]
		if !ok {
			t = &docTally{filename: r.Filename, name: name, firstRank: i}
			byName[name] = t
			ordered = append(ordered, t)
		}
		t.count++
		if r.Similarity > t.maxSim {
			t.maxSim = r.Similarity
		}
		t.text.WriteString(r.Text)
		t.text.WriteString("\n")
	}
	return ordered
}

// hasRankingSignal reports whether chunk counts or similarity scores can
// distinguish the documents. Without one, textual scoring decides.
func hasRankingSignal(tallies []*docTally) bool {
	if len(tallies) <= 1 {
		return true
	}
	for _, t := range tallies[1:] {
		if t.count != tallies[0].count || t.maxSim != tallies[0].maxSim {
			return true
		}
	}
	return tallies[0].maxSim > 0
}

func clampRelevance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxRelevance {
		return MaxRelevance
	}
	return v
}
