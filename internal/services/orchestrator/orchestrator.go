package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/agents"
	"github.com/ternarybob/scrutor/internal/services/attribution"
)

// Confidence reported when the fact-check call itself fails. The answer
// stands but is marked conservatively unverified.
const confidenceUnverified = 0.75

const noInformationAnswer = "No information available in the uploaded documents for this question."

// Service orchestrates one question through retrieval, classification,
// specialist agents, synthesis, attribution, and fact-checking. Provider
// failures degrade individual stages; only a failed search query aborts
// the request.
type Service struct {
	index       interfaces.IndexService
	qaStorage   interfaces.QAStorage
	classifier  *agents.QuestionClassifier
	document    *agents.DocumentAgent
	analysis    *agents.AnalysisAgent
	data        *agents.DataExtractionAgent
	factCheck   *agents.FactCheckAgent
	synthesizer *synthesizer
	attribution *attribution.Engine

	agentTimeout  time.Duration
	contextChunks int
	logger        arbor.ILogger
}

func NewService(
	index interfaces.IndexService,
	llm interfaces.LLMService,
	qaStorage interfaces.QAStorage,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	log := logger.WithPrefix("orchestrator")
	return &Service{
		index:         index,
		qaStorage:     qaStorage,
		classifier:    &agents.QuestionClassifier{},
		document:      agents.NewDocumentAgent(llm, logger),
		analysis:      agents.NewAnalysisAgent(llm, logger),
		data:          agents.NewDataExtractionAgent(llm, logger),
		factCheck:     agents.NewFactCheckAgent(llm, logger),
		synthesizer:   newSynthesizer(llm, config.Orchestrator.SynthesisMaxTokens, logger),
		attribution:   attribution.NewEngine(logger),
		agentTimeout:  config.AgentTimeoutDuration(),
		contextChunks: config.Orchestrator.ContextChunks,
		logger:        log,
	}
}

// Ask answers one question against the indexed documents of projectID,
// optionally restricted to docIDs, and persists the exchange to the
// project's Q&A history.
func (s *Service) Ask(ctx context.Context, question, projectID string, docIDs []string) (*models.AnswerResult, error) {
	started := time.Now()

	retrieved, err := s.index.Search(ctx, question, projectID, docIDs, s.contextChunks)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	category := s.classifier.Classify(question)

	if len(retrieved) == 0 {
		s.logger.Info().
			Str("project_id", projectID).
			Str("category", string(category)).
			Msg("No context retrieved for question")
		result := &models.AnswerResult{
			Question:     question,
			Answer:       noInformationAnswer,
			Sources:      nil,
			Confidence:   0.0,
			QuestionType: category,
		}
		s.persist(ctx, projectID, result)
		return result, nil
	}

	outputs, agentsUsed := s.runAgents(ctx, question, category, retrieved)
	docOutput := outputs[0]

	filtered := filterRelevant(question, outputs)

	synthCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	rawAnswer := s.synthesizer.synthesize(synthCtx, question, filtered)
	cancel()

	// Attribution reads the raw answer before citation markers are removed.
	sources := s.attribution.ExtractSources(question, rawAnswer, retrieved, docOutput.RelevantSources)
	answer := stripCitations(rawAnswer)

	confidence := s.verify(ctx, question, rawAnswer, retrieved)
	agentsUsed = append(agentsUsed, models.AgentFactCheck)

	result := &models.AnswerResult{
		Question:     question,
		Answer:       answer,
		Sources:      sources,
		Confidence:   confidence,
		AgentsUsed:   agentsUsed,
		QuestionType: category,
	}

	s.persist(ctx, projectID, result)

	s.logger.Info().
		Str("project_id", projectID).
		Str("category", string(category)).
		Int("sources", len(sources)).
		Float64("confidence", confidence).
		Str("duration", time.Since(started).String()).
		Msg("Question answered")

	return result, nil
}

// runAgents executes the document agent first, then dispatches the
// category's specialists concurrently with independent timeouts. The
// document agent's output is always outputs[0].
func (s *Service) runAgents(ctx context.Context, question string, category models.QuestionCategory, retrieved []models.SearchResult) ([]models.AgentOutput, []string) {
	docCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	docOutput := s.document.Run(docCtx, question, retrieved)
	cancel()

	runAnalysis := category == models.QuestionAnalysis ||
		category == models.QuestionSummary ||
		category == models.QuestionComparison ||
		category == models.QuestionGeneral
	runData := category == models.QuestionData || category == models.QuestionFinancial

	var (
		wg             sync.WaitGroup
		analysisOutput models.AgentOutput
		dataOutput     models.AgentOutput
	)

	// A timeout in one specialist must not cancel or delay the other, so
	// each gets its own context derived from the request.
	if runAnalysis {
		wg.Add(1)
		common.SafeGo(s.logger, "analysis-agent", func() {
			defer wg.Done()
			agentCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
			defer cancel()
			analysisOutput = s.analysis.Run(agentCtx, question, docOutput.Content, retrieved)
		})
	}
	if runData {
		wg.Add(1)
		common.SafeGo(s.logger, "data-extraction-agent", func() {
			defer wg.Done()
			agentCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
			defer cancel()
			dataOutput = s.data.Run(agentCtx, question, retrieved)
		})
	}
	wg.Wait()

	outputs := []models.AgentOutput{docOutput}
	agentsUsed := []string{models.AgentDocument}
	if runAnalysis {
		outputs = append(outputs, analysisOutput)
		agentsUsed = append(agentsUsed, models.AgentAnalysis)
	}
	if runData {
		outputs = append(outputs, dataOutput)
		agentsUsed = append(agentsUsed, models.AgentDataExtraction)
	}
	return outputs, agentsUsed
}

// verify fact-checks the answer against the retrieved context. A failed
// verification call yields a conservative unverified confidence instead
// of failing the request.
func (s *Service) verify(ctx context.Context, question, answer string, retrieved []models.SearchResult) float64 {
	verifyCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	_, confidence, err := s.factCheck.Verify(verifyCtx, question, answer, retrieved)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Fact check failed, reporting unverified confidence")
		return confidenceUnverified
	}
	return confidence
}

// persist appends the exchange to the project's Q&A history. History
// write failures are logged but never fail an answered question.
func (s *Service) persist(ctx context.Context, projectID string, result *models.AnswerResult) {
	row, err := s.qaStorage.NextRow(ctx, projectID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to allocate QA history row")
		return
	}

	entry := &models.QAEntry{
		ID:           common.NewQAEntryID(),
		ProjectID:    projectID,
		Row:          row,
		Question:     result.Question,
		Answer:       result.Answer,
		Sources:      result.Sources,
		Confidence:   result.Confidence,
		QuestionType: result.QuestionType,
		AgentsUsed:   result.AgentsUsed,
		CreatedAt:    time.Now(),
	}
	if err := s.qaStorage.SaveEntry(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("entry_id", entry.ID).Msg("Failed to persist QA entry")
	}
}
