package orchestrator

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/agents"
)

const (
	synthesisTemperature = 0.3

	// Per-section cap used by the deterministic fallback.
	fallbackSectionChars = 600
	fallbackSeparator    = "\n\n"
)

// synthesizer combines filtered agent outputs into one answer. Provider
// failures fall back to a deterministic concatenation so a textual answer
// is always produced.
type synthesizer struct {
	llm       interfaces.LLMService
	maxTokens int
	logger    arbor.ILogger
}

func newSynthesizer(llm interfaces.LLMService, maxTokens int, logger arbor.ILogger) *synthesizer {
	return &synthesizer{
		llm:       llm,
		maxTokens: maxTokens,
		logger:    logger.WithPrefix("synthesis"),
	}
}

// synthesize returns the combined answer. The error path is internal; the
// returned string is never empty when outputs exist.
func (s *synthesizer) synthesize(ctx context.Context, question string, outputs []models.AgentOutput) string {
	messages := []interfaces.Message{
		{Role: "system", Content: agents.SynthesisSystemPrompt},
		{Role: "user", Content: agents.BuildSynthesisPrompt(agents.SynthesisPromptInput{Question: question, Outputs: outputs})},
	}
	opts := &interfaces.ChatOptions{
		Temperature: synthesisTemperature,
		MaxTokens:   s.maxTokens,
	}

	answer, err := s.llm.Chat(ctx, messages, opts)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Synthesis call failed, using deterministic fallback")
		return simpleSynthesis(outputs)
	}
	return answer
}

// simpleSynthesis concatenates agent outputs in fixed preference order:
// document findings, then extracted data, then analysis. Each section is
// truncated so a pathological output cannot flood the answer.
func simpleSynthesis(outputs []models.AgentOutput) string {
	byAgent := make(map[string]string)
	for _, out := range outputs {
		if out.Degraded || strings.TrimSpace(out.Content) == "" {
			continue
		}
		if _, exists := byAgent[out.Agent]; !exists {
			byAgent[out.Agent] = out.Content
		}
	}

	var parts []string
	for _, agent := range []string{models.AgentDocument, models.AgentDataExtraction, models.AgentAnalysis} {
		if content, ok := byAgent[agent]; ok {
			content = strings.TrimSpace(content)
			if len(content) > fallbackSectionChars {
				content = content[:fallbackSectionChars]
			}
			parts = append(parts, content)
		}
	}

	if len(parts) == 0 {
		return "Unable to generate an answer from the available documents."
	}
	return strings.Join(parts, fallbackSeparator)
}
