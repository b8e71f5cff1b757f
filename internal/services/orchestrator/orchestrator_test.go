package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// fakeIndex serves canned search results.
type fakeIndex struct {
	results   []models.SearchResult
	searchErr error
}

func (f *fakeIndex) AddDocument(ctx context.Context, doc *models.Document, text string) error {
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, query, projectID string, docIDs []string, topK int) ([]models.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeIndex) DeleteDocument(ctx context.Context, id string) error { return nil }
func (f *fakeIndex) RepairEmbeddings(ctx context.Context) (int, error)   { return 0, nil }

// fakeQA records saved entries.
type fakeQA struct {
	entries []*models.QAEntry
}

func (f *fakeQA) SaveEntry(ctx context.Context, entry *models.QAEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeQA) GetEntry(ctx context.Context, id string) (*models.QAEntry, error) {
	return nil, fmt.Errorf("not found")
}

func (f *fakeQA) ListEntries(ctx context.Context, projectID string) ([]*models.QAEntry, error) {
	return f.entries, nil
}

func (f *fakeQA) DeleteEntry(ctx context.Context, id string) error { return nil }

func (f *fakeQA) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	return 0, nil
}

func (f *fakeQA) NextRow(ctx context.Context, projectID string) (int, error) {
	return len(f.entries) + 1, nil
}

// scriptedLLM replies per prompt keyword so each pipeline stage can be
// steered independently.
type scriptedLLM struct {
	failAll bool
	calls   int
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []interfaces.Message, opts *interfaces.ChatOptions) (string, error) {
	s.calls++
	if s.failAll {
		return "", fmt.Errorf("provider down")
	}
	system := messages[0].Content
	switch {
	case strings.Contains(system, "Fact-Checking"):
		return "The answer is accurate and supported by the sources.", nil
	case strings.Contains(system, "Synthesis"):
		return "EBITDA was $4.6M according to the EBITDA Analysis.", nil
	case strings.Contains(system, "Data Extraction"):
		return "EBITDA: 4.6 M USD", nil
	case strings.Contains(system, "Analyst"):
		return "EBITDA improved on stronger margins.", nil
	default:
		return "EBITDA Analysis contains the relevant figures.", nil
	}
}

func (s *scriptedLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("not supported")
}

func (s *scriptedLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *scriptedLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeOffline }
func (s *scriptedLLM) Close() error                          { return nil }

func newTestService(index *fakeIndex, llm interfaces.LLMService, qa *fakeQA) *Service {
	cfg := common.NewDefaultConfig()
	cfg.Orchestrator.AgentTimeout = "5s"
	return NewService(index, llm, qa, cfg, arbor.NewLogger())
}

func retrievedContext() []models.SearchResult {
	return []models.SearchResult{
		{DocumentID: "doc_1", Filename: "ebitda_analysis.txt", NormalizedName: "EBITDA Analysis", Text: "EBITDA was $4.6M in FY24.", Similarity: 0.9, Rank: 1},
		{DocumentID: "doc_2", Filename: "revenue_projections.txt", NormalizedName: "Revenue Projections", Text: "Revenue reaches $20M.", Similarity: 0.7, Rank: 2},
	}
}

func TestAsk_FullPipeline(t *testing.T) {
	index := &fakeIndex{results: retrievedContext()}
	qa := &fakeQA{}
	svc := newTestService(index, &scriptedLLM{}, qa)

	result, err := svc.Ask(context.Background(), "What is the EBITDA margin?", "proj_default", nil)
	require.NoError(t, err)

	// "what is the" trips the data rule before the financial keywords.
	assert.Equal(t, models.QuestionData, result.QuestionType)
	assert.Contains(t, result.Answer, "EBITDA was $4.6M")
	assert.Equal(t, 0.95, result.Confidence)

	// The answer names one document explicitly.
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "EBITDA Analysis", result.Sources[0].Filename)

	// Financial questions dispatch data extraction, not analysis.
	assert.Equal(t, []string{models.AgentDocument, models.AgentDataExtraction, models.AgentFactCheck}, result.AgentsUsed)

	// The exchange lands in history with a dense row number.
	require.Len(t, qa.entries, 1)
	assert.Equal(t, 1, qa.entries[0].Row)
	assert.Equal(t, result.Answer, qa.entries[0].Answer)
}

func TestAsk_GeneralQuestionDispatchesAnalysis(t *testing.T) {
	index := &fakeIndex{results: retrievedContext()}
	svc := newTestService(index, &scriptedLLM{}, &fakeQA{})

	result, err := svc.Ask(context.Background(), "Tell me about the business", "proj_default", nil)
	require.NoError(t, err)

	assert.Equal(t, models.QuestionGeneral, result.QuestionType)
	assert.Equal(t, []string{models.AgentDocument, models.AgentAnalysis, models.AgentFactCheck}, result.AgentsUsed)
}

func TestAsk_EmptyContext(t *testing.T) {
	index := &fakeIndex{}
	qa := &fakeQA{}
	svc := newTestService(index, &scriptedLLM{}, qa)

	result, err := svc.Ask(context.Background(), "What is the EBITDA margin?", "proj_default", nil)
	require.NoError(t, err)

	assert.Equal(t, noInformationAnswer, result.Answer)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Sources)

	// Even a no-information exchange is kept in history.
	require.Len(t, qa.entries, 1)
}

func TestAsk_SearchFailureSurfaces(t *testing.T) {
	index := &fakeIndex{searchErr: fmt.Errorf("query embedding failed")}
	svc := newTestService(index, &scriptedLLM{}, &fakeQA{})

	_, err := svc.Ask(context.Background(), "anything", "proj_default", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestAsk_AllProvidersDownStillAnswers(t *testing.T) {
	index := &fakeIndex{results: retrievedContext()}
	svc := newTestService(index, &scriptedLLM{failAll: true}, &fakeQA{})

	result, err := svc.Ask(context.Background(), "What is the EBITDA margin?", "proj_default", nil)
	require.NoError(t, err)

	// Synthesis fell back deterministically and the fact check defaulted
	// to the conservative unverified value.
	assert.NotEmpty(t, result.Answer)
	assert.Equal(t, confidenceUnverified, result.Confidence)
	assert.NotEmpty(t, result.Sources)
}
