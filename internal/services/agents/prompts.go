package agents

import (
	"fmt"
	"strings"

	"github.com/ternarybob/scrutor/internal/models"
)

// Per-agent context formatting limits. Each agent sees a different slice
// and truncation of the retrieved chunks.
const (
	documentContextDocs  = 5
	documentSnippetChars = 500
	analysisContextDocs  = 3
	analysisSnippetChars = 800
	dataContextDocs      = 5
	dataSnippetChars     = 1000
	factCheckContextDocs = 5
	factCheckSnippet     = 800
)

const documentSystemPrompt = `You are a Document Retrieval Specialist for due diligence.
Your role is to:
1. Identify the most relevant documents for answering the question
2. Extract key passages with precise citations
3. Note which documents contain the answer
4. Provide page/section references when available

Be precise and cite your sources.`

const analysisSystemPrompt = `You are a Senior Due Diligence Analyst.
Your role is to:
1. Provide deep analysis of the information
2. Identify key insights and implications
3. Note important trends or patterns
4. Highlight potential risks or opportunities
5. Give context and background

Provide professional, actionable analysis.`

const dataExtractionSystemPrompt = `You are a Data Extraction Specialist for due diligence.
Your role is to:
1. Extract ALL relevant numbers, percentages, and metrics
2. Extract specific financial data (revenue, profit, costs, debt, interest rates, margins)
3. Extract ALL percentages, ratios, and rates mentioned
4. Pull out counts (number of customers, employees, contracts, patents, etc.)
5. Identify dates, timelines, and growth metrics
6. Structure the data clearly with specific numbers

CRITICAL: Always include the EXACT numbers, percentages, and counts. Never use vague terms like "several" or "many".
If data exists, extract it with precision. If multiple values exist, list them all.

Always format with: [METRIC]: [NUMBER] [UNIT]`

const factCheckSystemPrompt = `You are a Fact-Checking Specialist.
Your role is to:
1. Verify claims against source documents
2. Check for accuracy and completeness
3. Identify any unsupported statements
4. Flag contradictions or inconsistencies
5. Assess confidence in the answer

Be thorough and objective.`

// SynthesisSystemPrompt frames the final combination call made by the
// orchestrator after relevance filtering.
const SynthesisSystemPrompt = `You are an Answer Synthesis Specialist.
Your role is to combine insights from multiple AI agents into a single, comprehensive answer.

Guidelines:
1. Integrate all relevant information from the agents
2. Maintain accuracy and cite sources
3. Be clear and concise
4. Structure the answer logically
5. Include specific data points when available

Provide a professional, well-structured answer.`

// DocumentPromptInput carries everything the document agent prompt needs.
type DocumentPromptInput struct {
	Question string
	Context  []models.SearchResult
}

// BuildDocumentPrompt renders the document agent's user prompt over the
// top retrieved chunks, labeling each snippet with its normalized name.
func BuildDocumentPrompt(in DocumentPromptInput) string {
	var ctx strings.Builder
	for i, result := range truncateContext(in.Context, documentContextDocs) {
		name := result.NormalizedName
		if name == "" {
			name = NormalizeDocumentName(result.Filename)
		}
		ctx.WriteString(fmt.Sprintf("\n\n[Source %d: %s]\n%s...", i+1, name, snippet(result.Text, documentSnippetChars)))
	}

	return fmt.Sprintf(`Question: %s

Available Documents:
%s

Task: Identify which documents contain relevant information to answer this question.
List the document names and key passages.`, in.Question, ctx.String())
}

// AnalysisPromptInput carries the analysis agent's inputs, including the
// document agent's findings which seed the analysis.
type AnalysisPromptInput struct {
	Question         string
	DocumentFindings string
	Context          []models.SearchResult
}

// BuildAnalysisPrompt renders the analysis agent's user prompt.
func BuildAnalysisPrompt(in AnalysisPromptInput) string {
	var ctx strings.Builder
	for _, result := range truncateContext(in.Context, analysisContextDocs) {
		ctx.WriteString(fmt.Sprintf("[%s]\n%s\n\n", result.Filename, snippet(result.Text, analysisSnippetChars)))
	}

	return fmt.Sprintf(`Question: %s

Document Findings:
%s

Additional Context:
%s

Provide comprehensive analysis with key insights.`, in.Question, in.DocumentFindings, strings.TrimSpace(ctx.String()))
}

// DataPromptInput carries the data extraction agent's inputs.
type DataPromptInput struct {
	Question string
	Context  []models.SearchResult
}

// BuildDataPrompt renders the data extraction agent's user prompt.
func BuildDataPrompt(in DataPromptInput) string {
	var ctx strings.Builder
	for _, result := range truncateContext(in.Context, dataContextDocs) {
		ctx.WriteString(fmt.Sprintf("[%s]\n%s\n\n", result.Filename, snippet(result.Text, dataSnippetChars)))
	}

	return fmt.Sprintf(`Question: %s

Documents:
%s

Extract ALL relevant data points, numbers, percentages, counts, dates, and metrics that help answer this question.
Be thorough and specific. Include:
- All financial figures (revenue, profit, costs, debt amounts)
- All percentages (margins, rates, growth percentages)
- All counts (number of items, customers, employees, etc.)
- Interest rates and loan terms
- Dates and timelines
- Growth rates and metrics

Format: For each data point, specify: [Type]: [Exact Number] [Unit]`, in.Question, strings.TrimSpace(ctx.String()))
}

// FactCheckPromptInput carries the fact-check agent's inputs.
type FactCheckPromptInput struct {
	Question string
	Answer   string
	Context  []models.SearchResult
}

// BuildFactCheckPrompt renders the fact-check agent's user prompt.
func BuildFactCheckPrompt(in FactCheckPromptInput) string {
	var ctx strings.Builder
	for _, result := range truncateContext(in.Context, factCheckContextDocs) {
		ctx.WriteString(fmt.Sprintf("[%s]\n%s\n\n", result.Filename, snippet(result.Text, factCheckSnippet)))
	}

	return fmt.Sprintf(`Question: %s

Proposed Answer:
%s

Source Documents:
%s

Verify this answer against the source documents. Check for accuracy, completeness, and identify any issues.`, in.Question, in.Answer, strings.TrimSpace(ctx.String()))
}

// SynthesisPromptInput carries the synthesis call's inputs.
type SynthesisPromptInput struct {
	Question string
	Outputs  []models.AgentOutput
}

// BuildSynthesisPrompt renders the synthesis user prompt over the filtered
// agent outputs.
func BuildSynthesisPrompt(in SynthesisPromptInput) string {
	var outputs strings.Builder
	for _, out := range in.Outputs {
		outputs.WriteString(fmt.Sprintf("\n\n=== %s ===\n%s", out.Agent, out.Content))
	}

	return fmt.Sprintf(`Question: %s

Agent Findings:
%s

Synthesize a comprehensive answer that combines all agent insights.`, in.Question, outputs.String())
}

func truncateContext(results []models.SearchResult, max int) []models.SearchResult {
	if len(results) > max {
		return results[:max]
	}
	return results
}

func snippet(text string, max int) string {
	if len(text) > max {
		return text[:max]
	}
	return text
}
