package agents

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// fakeLLM records the last chat call and returns a canned reply or error.
type fakeLLM struct {
	reply    string
	err      error
	lastMsgs []interfaces.Message
	lastOpts *interfaces.ChatOptions
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message, opts *interfaces.ChatOptions) (string, error) {
	f.lastMsgs = messages
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeOffline }
func (f *fakeLLM) Close() error                          { return nil }

func testContext() []models.SearchResult {
	return []models.SearchResult{
		{DocumentID: "doc_1", Filename: "ebitda_analysis.txt", NormalizedName: "EBITDA Analysis", ChunkIndex: 0, Text: "EBITDA was $4.6M in FY24.", Similarity: 0.91, Rank: 1},
		{DocumentID: "doc_1", Filename: "ebitda_analysis.txt", NormalizedName: "EBITDA Analysis", ChunkIndex: 2, Text: "Margin improved to 23%.", Similarity: 0.84, Rank: 2},
		{DocumentID: "doc_2", Filename: "revenue_projections.txt", NormalizedName: "Revenue Projections", ChunkIndex: 1, Text: "Revenue is projected to reach $20M.", Similarity: 0.71, Rank: 3},
	}
}

func TestDocumentAgent_Run(t *testing.T) {
	llm := &fakeLLM{reply: "EBITDA Analysis contains the figures."}
	agent := NewDocumentAgent(llm, arbor.NewLogger())

	out := agent.Run(context.Background(), "What was EBITDA?", testContext())

	assert.Equal(t, models.AgentDocument, out.Agent)
	assert.Equal(t, "EBITDA Analysis contains the figures.", out.Content)
	assert.False(t, out.Degraded)
	assert.Equal(t, []string{"EBITDA Analysis", "Revenue Projections"}, out.SourcesChecked)
	assert.Equal(t, []string{"EBITDA Analysis", "Revenue Projections"}, out.RelevantSources)

	require.NotNil(t, llm.lastOpts)
	assert.InDelta(t, defaultTemperature, llm.lastOpts.Temperature, 1e-9)
	assert.Equal(t, defaultMaxTokens, llm.lastOpts.MaxTokens)
}

func TestDocumentAgent_Run_DegradesOnProviderFailure(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("provider down")}
	agent := NewDocumentAgent(llm, arbor.NewLogger())

	out := agent.Run(context.Background(), "What was EBITDA?", testContext())

	assert.True(t, out.Degraded)
	assert.Contains(t, out.Content, "provider down")
	// Source bookkeeping survives the failed call.
	assert.Equal(t, []string{"EBITDA Analysis", "Revenue Projections"}, out.SourcesChecked)
}

func TestAnalysisAgent_Run_UsesWarmerTemperature(t *testing.T) {
	llm := &fakeLLM{reply: "The margin trend is positive."}
	agent := NewAnalysisAgent(llm, arbor.NewLogger())

	out := agent.Run(context.Background(), "Why is EBITDA improving?", "EBITDA Analysis has the data.", testContext())

	assert.Equal(t, models.AgentAnalysis, out.Agent)
	assert.False(t, out.Degraded)
	require.NotNil(t, llm.lastOpts)
	assert.InDelta(t, analysisTemperature, llm.lastOpts.Temperature, 1e-9)

	// Document findings are forwarded into the prompt.
	user := llm.lastMsgs[len(llm.lastMsgs)-1].Content
	assert.Contains(t, user, "EBITDA Analysis has the data.")
}

func TestDataExtractionAgent_Run_DegradesOnProviderFailure(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("timeout")}
	agent := NewDataExtractionAgent(llm, arbor.NewLogger())

	out := agent.Run(context.Background(), "How much revenue?", testContext())

	assert.Equal(t, models.AgentDataExtraction, out.Agent)
	assert.True(t, out.Degraded)
}

func TestFactCheckAgent_Verify(t *testing.T) {
	llm := &fakeLLM{reply: "The answer is accurate and fully supported."}
	agent := NewFactCheckAgent(llm, arbor.NewLogger())

	text, confidence, err := agent.Verify(context.Background(), "What was EBITDA?", "EBITDA was $4.6M.", testContext())
	require.NoError(t, err)
	assert.Contains(t, text, "accurate")
	assert.Equal(t, ConfidenceVerified, confidence)
}

func TestFactCheckAgent_Verify_PropagatesError(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("rate limited")}
	agent := NewFactCheckAgent(llm, arbor.NewLogger())

	_, _, err := agent.Verify(context.Background(), "q", "a", testContext())
	require.Error(t, err)
}

func TestScoreVerification(t *testing.T) {
	tests := []struct {
		name         string
		verification string
		expected     float64
	}{
		{"accurate", "The answer is accurate.", ConfidenceVerified},
		{"correct", "All claims are correct.", ConfidenceVerified},
		{"partially", "The answer is partially supported.", ConfidencePartial},
		{"some issues", "There are some issues with the figures.", ConfidencePartial},
		{"inaccurate", "The answer is inaccurate.", ConfidenceRejected},
		{"incorrect", "Several claims are incorrect.", ConfidenceRejected},
		{"no verdict keyword", "The documents discuss revenue trends.", ConfidenceUnchecked},
		{"case insensitive", "ACCURATE and well supported.", ConfidenceVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreVerification(tt.verification))
		})
	}
}

func TestBuildDocumentPrompt_TruncatesAndLabels(t *testing.T) {
	long := strings.Repeat("x", 700)
	in := DocumentPromptInput{
		Question: "What was EBITDA?",
		Context: []models.SearchResult{
			{Filename: "ebitda_analysis.txt", NormalizedName: "EBITDA Analysis", Text: long},
		},
	}

	prompt := BuildDocumentPrompt(in)
	assert.Contains(t, prompt, "[Source 1: EBITDA Analysis]")
	assert.Contains(t, prompt, "What was EBITDA?")
	// Snippets are capped at 500 characters.
	assert.NotContains(t, prompt, strings.Repeat("x", 501))
	assert.Contains(t, prompt, strings.Repeat("x", 500))
}

func TestBuildSynthesisPrompt_SectionsPerAgent(t *testing.T) {
	prompt := BuildSynthesisPrompt(SynthesisPromptInput{
		Question: "What was EBITDA?",
		Outputs: []models.AgentOutput{
			{Agent: models.AgentDocument, Content: "found it"},
			{Agent: models.AgentDataExtraction, Content: "EBITDA: 4.6 M USD"},
		},
	})

	assert.Contains(t, prompt, "=== DocumentAgent ===")
	assert.Contains(t, prompt, "=== DataExtractionAgent ===")
	assert.Contains(t, prompt, "EBITDA: 4.6 M USD")
}
