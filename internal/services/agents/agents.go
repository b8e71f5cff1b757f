package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Default sampling parameters for agent calls. The analysis agent runs
// slightly warmer to encourage interpretive output.
const (
	defaultTemperature  = 0.3
	analysisTemperature = 0.4
	defaultMaxTokens    = 1500
)

// Fact-check confidence levels keyed off verdict keywords in the
// verification text.
const (
	ConfidenceVerified  = 0.95
	ConfidencePartial   = 0.70
	ConfidenceRejected  = 0.40
	ConfidenceUnchecked = 0.85
)

const relevantSourceLimit = 3

// DocumentAgent locates the documents most likely to answer a question
// and extracts supporting passages with citations.
type DocumentAgent struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewDocumentAgent(llm interfaces.LLMService, logger arbor.ILogger) *DocumentAgent {
	return &DocumentAgent{
		llm:    llm,
		logger: logger.WithPrefix("agent-document"),
	}
}

// Run identifies relevant documents from the retrieved context. Provider
// failures produce a degraded output rather than an error so the
// pipeline can continue with the remaining agents.
func (a *DocumentAgent) Run(ctx context.Context, question string, retrieved []models.SearchResult) models.AgentOutput {
	checked := sourceNames(retrieved, documentContextDocs)
	relevant := sourceNames(retrieved, relevantSourceLimit)

	content, err := callLLM(ctx, a.llm, documentSystemPrompt,
		BuildDocumentPrompt(DocumentPromptInput{Question: question, Context: retrieved}),
		defaultTemperature)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Document agent call failed")
		return degradedOutput(models.AgentDocument, err, checked, relevant)
	}

	return models.AgentOutput{
		Agent:           models.AgentDocument,
		Content:         content,
		SourcesChecked:  checked,
		RelevantSources: relevant,
	}
}

// AnalysisAgent produces interpretive analysis on top of the document
// agent's findings.
type AnalysisAgent struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewAnalysisAgent(llm interfaces.LLMService, logger arbor.ILogger) *AnalysisAgent {
	return &AnalysisAgent{
		llm:    llm,
		logger: logger.WithPrefix("agent-analysis"),
	}
}

func (a *AnalysisAgent) Run(ctx context.Context, question, documentFindings string, retrieved []models.SearchResult) models.AgentOutput {
	content, err := callLLM(ctx, a.llm, analysisSystemPrompt,
		BuildAnalysisPrompt(AnalysisPromptInput{Question: question, DocumentFindings: documentFindings, Context: retrieved}),
		analysisTemperature)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Analysis agent call failed")
		return degradedOutput(models.AgentAnalysis, err, nil, nil)
	}

	return models.AgentOutput{Agent: models.AgentAnalysis, Content: content}
}

// DataExtractionAgent pulls exact numbers, percentages, and metrics out
// of the retrieved context.
type DataExtractionAgent struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewDataExtractionAgent(llm interfaces.LLMService, logger arbor.ILogger) *DataExtractionAgent {
	return &DataExtractionAgent{
		llm:    llm,
		logger: logger.WithPrefix("agent-data"),
	}
}

func (a *DataExtractionAgent) Run(ctx context.Context, question string, retrieved []models.SearchResult) models.AgentOutput {
	content, err := callLLM(ctx, a.llm, dataExtractionSystemPrompt,
		BuildDataPrompt(DataPromptInput{Question: question, Context: retrieved}),
		defaultTemperature)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Data extraction agent call failed")
		return degradedOutput(models.AgentDataExtraction, err, nil, nil)
	}

	return models.AgentOutput{Agent: models.AgentDataExtraction, Content: content}
}

// FactCheckAgent verifies a synthesized answer against the source
// context and scores confidence from the verdict wording.
type FactCheckAgent struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewFactCheckAgent(llm interfaces.LLMService, logger arbor.ILogger) *FactCheckAgent {
	return &FactCheckAgent{
		llm:    llm,
		logger: logger.WithPrefix("agent-factcheck"),
	}
}

// Verify checks the answer against the context and returns the
// verification text plus a confidence score. A failed provider call
// returns an error; the caller decides the fallback confidence.
func (a *FactCheckAgent) Verify(ctx context.Context, question, answer string, retrieved []models.SearchResult) (string, float64, error) {
	content, err := callLLM(ctx, a.llm, factCheckSystemPrompt,
		BuildFactCheckPrompt(FactCheckPromptInput{Question: question, Answer: answer, Context: retrieved}),
		defaultTemperature)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Fact check call failed")
		return "", 0, err
	}

	return content, ScoreVerification(content), nil
}

// ScoreVerification maps verdict keywords in the verification text to a
// confidence score. Negative verdicts are checked before positive ones
// so "not accurate" does not read as verified.
func ScoreVerification(verification string) float64 {
	vLower := strings.ToLower(verification)

	switch {
	case strings.Contains(vLower, "inaccurate") || strings.Contains(vLower, "incorrect"):
		return ConfidenceRejected
	case strings.Contains(vLower, "partially") || strings.Contains(vLower, "some issues"):
		return ConfidencePartial
	case strings.Contains(vLower, "accurate") || strings.Contains(vLower, "correct"):
		return ConfidenceVerified
	default:
		return ConfidenceUnchecked
	}
}

func callLLM(ctx context.Context, llm interfaces.LLMService, system, user string, temperature float64) (string, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	opts := &interfaces.ChatOptions{
		Temperature: temperature,
		MaxTokens:   defaultMaxTokens,
	}
	return llm.Chat(ctx, messages, opts)
}

// sourceNames collects deduplicated normalized document names from the
// retrieved context in rank order. A limit of 0 means no limit.
func sourceNames(results []models.SearchResult, limit int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range results {
		name := r.NormalizedName
		if name == "" {
			name = NormalizeDocumentName(r.Filename)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	return names
}

// degradedOutput converts a provider failure into a placeholder output so
// siblings and synthesis can proceed with partial information.
func degradedOutput(agent string, err error, checked, relevant []string) models.AgentOutput {
	return models.AgentOutput{
		Agent:           agent,
		Content:         fmt.Sprintf("Error: %v", err),
		SourcesChecked:  checked,
		RelevantSources: relevant,
		Degraded:        true,
	}
}
