package llm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// ProviderFactory creates and caches LLM services per provider. The chat
// provider follows llm.default_provider; embeddings always run on Gemini
// because Claude has no embedding endpoint.
type ProviderFactory struct {
	config    *common.Config
	kvStorage interfaces.KeyValueStorage
	logger    arbor.ILogger

	mu     sync.Mutex
	gemini *GeminiService
	claude *ClaudeService
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *common.Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		config:    config,
		kvStorage: kvStorage,
		logger:    logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model names starting with "claude" map to Claude; everything else
// defaults to Gemini.
func (f *ProviderFactory) DetectProvider(model string) common.LLMProvider {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "claude") {
		return common.LLMProviderClaude
	}
	return common.LLMProviderGemini
}

// ChatService returns the LLM service for the configured default provider.
func (f *ProviderFactory) ChatService() (interfaces.LLMService, error) {
	switch f.config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return f.claudeService()
	case common.LLMProviderGemini, "":
		return f.geminiService()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", f.config.LLM.DefaultProvider)
	}
}

// EmbeddingBackend returns the LLM service used for embeddings. This is
// always the Gemini service regardless of the chat provider.
func (f *ProviderFactory) EmbeddingBackend() (interfaces.LLMService, error) {
	return f.geminiService()
}

// Close releases all cached provider clients.
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gemini != nil {
		if err := f.gemini.Close(); err != nil {
			return err
		}
		f.gemini = nil
	}
	if f.claude != nil {
		if err := f.claude.Close(); err != nil {
			return err
		}
		f.claude = nil
	}
	return nil
}

func (f *ProviderFactory) geminiService() (*GeminiService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gemini != nil {
		return f.gemini, nil
	}

	service, err := NewGeminiService(&f.config.Gemini, f.kvStorage, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}
	f.gemini = service
	return service, nil
}

func (f *ProviderFactory) claudeService() (*ClaudeService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claude != nil {
		return f.claude, nil
	}

	service, err := NewClaudeService(&f.config.Claude, f.kvStorage, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Claude service: %w", err)
	}
	f.claude = service
	return service, nil
}
