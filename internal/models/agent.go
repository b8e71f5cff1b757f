package models

// QuestionCategory is the keyword-classified type of an incoming question.
// The category selects which specialist agents run after the document agent.
type QuestionCategory string

const (
	QuestionData       QuestionCategory = "data"
	QuestionFinancial  QuestionCategory = "financial"
	QuestionAnalysis   QuestionCategory = "analysis"
	QuestionSummary    QuestionCategory = "summary"
	QuestionComparison QuestionCategory = "comparison"
	QuestionGeneral    QuestionCategory = "general"
)

// Agent names as reported in AnswerResult.AgentsUsed.
const (
	AgentDocument       = "DocumentAgent"
	AgentAnalysis       = "AnalysisAgent"
	AgentDataExtraction = "DataExtractionAgent"
	AgentFactCheck      = "FactCheckAgent"
)

// AgentOutput is one specialist agent's contribution to an answer. Provider
// failures never surface as errors; a failed agent returns a degraded output
// with a placeholder Content so siblings and synthesis continue.
type AgentOutput struct {
	Agent           string   `json:"agent"`
	Content         string   `json:"content"`
	SourcesChecked  []string `json:"sources_checked,omitempty"`
	RelevantSources []string `json:"relevant_sources,omitempty"`
	Degraded        bool     `json:"degraded,omitempty"`
}

// Source is one attributed document with its relevance score in [0, 0.95].
type Source struct {
	Filename  string  `json:"filename"`
	Relevance float64 `json:"relevance"`
}

// AnswerResult is the orchestrator's final product for one question.
type AnswerResult struct {
	Question     string           `json:"question"`
	Answer       string           `json:"answer"`
	Sources      []Source         `json:"sources"`
	Confidence   float64          `json:"confidence"`
	AgentsUsed   []string         `json:"agents_used"`
	QuestionType QuestionCategory `json:"question_type"`
}
