package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/handlers"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/services/embeddings"
	"github.com/ternarybob/scrutor/internal/services/export"
	"github.com/ternarybob/scrutor/internal/services/extract"
	"github.com/ternarybob/scrutor/internal/services/index"
	"github.com/ternarybob/scrutor/internal/services/llm"
	"github.com/ternarybob/scrutor/internal/services/orchestrator"
	"github.com/ternarybob/scrutor/internal/services/projects"
	badgerstorage "github.com/ternarybob/scrutor/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLM and retrieval services
	ProviderFactory  *llm.ProviderFactory
	ChatService      interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	IndexService     interfaces.IndexService
	RepairScheduler  *embeddings.RepairScheduler

	// Domain services
	Orchestrator   interfaces.OrchestratorService
	ProjectService *projects.Service
	ExportService  *export.Service
	Extractor      interfaces.TextExtractor

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	AskHandler      *handlers.AskHandler
	DocumentHandler *handlers.DocumentHandler
	ProjectHandler  *handlers.ProjectHandler
	QAHandler       *handlers.QAHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := app.loadVariables(); err != nil {
		return nil, fmt.Errorf("failed to load variables: %w", err)
	}
	if err := app.initServices(); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.initHandlers()

	if err := app.startBackground(); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to start background services: %w", err)
	}

	logger.Info().Msg("Application initialized")
	return app, nil
}

func (a *App) initStorage() error {
	manager, err := badgerstorage.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = manager
	return nil
}

// loadVariables seeds the key/value store from the variables directory and
// an optional .env file; config placeholders resolve against these.
func (a *App) loadVariables() error {
	ctx := context.Background()

	if dir := a.Config.Variables.Dir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			if err := a.StorageManager.LoadVariablesFromFiles(ctx, dir); err != nil {
				return err
			}
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := a.StorageManager.LoadEnvFile(ctx, ".env"); err != nil {
			return err
		}
	}

	// Re-resolve {key} placeholders now that the KV store is populated.
	kvMap, err := a.StorageManager.KeyValueStorage().GetAll(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to fetch KV map for config replacement, skipping replacement")
		return nil
	}
	if err := common.ReplaceInStruct(a.Config, kvMap, a.Logger); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to replace key references in config")
	}
	return nil
}

func (a *App) initServices() error {
	a.ProviderFactory = llm.NewProviderFactory(a.Config, a.StorageManager.KeyValueStorage(), a.Logger)

	chatService, err := a.ProviderFactory.ChatService()
	if err != nil {
		return fmt.Errorf("chat provider init failed: %w", err)
	}
	a.ChatService = chatService

	embeddingBackend, err := a.ProviderFactory.EmbeddingBackend()
	if err != nil {
		return fmt.Errorf("embedding provider init failed: %w", err)
	}
	a.EmbeddingService = embeddings.NewService(embeddingBackend, llm.EmbedDimension, a.Logger)

	a.IndexService = index.NewService(
		a.EmbeddingService,
		a.StorageManager.DocumentStorage(),
		&a.Config.Index,
		a.Config.Processing.Limit,
		a.Logger,
	)

	a.Orchestrator = orchestrator.NewService(
		a.IndexService,
		a.ChatService,
		a.StorageManager.QAStorage(),
		a.Config,
		a.Logger,
	)

	a.ProjectService = projects.NewService(a.StorageManager, a.Logger)
	a.ExportService = export.NewService(a.StorageManager, a.Logger)
	a.Extractor = extract.NewRegistry(a.Logger)

	if err := a.ProjectService.EnsureDefault(context.Background()); err != nil {
		return err
	}

	a.RepairScheduler = embeddings.NewRepairScheduler(a.IndexService, &a.Config.Processing, a.Logger)
	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.ChatService, a.RepairScheduler)
	a.AskHandler = handlers.NewAskHandler(a.Orchestrator)
	a.DocumentHandler = handlers.NewDocumentHandler(a.Extractor, a.IndexService, a.StorageManager.DocumentStorage())
	a.ProjectHandler = handlers.NewProjectHandler(a.ProjectService)
	a.QAHandler = handlers.NewQAHandler(a.StorageManager.QAStorage(), a.ExportService)
}

func (a *App) startBackground() error {
	if !a.Config.Processing.Enabled {
		a.Logger.Info().Msg("Embedding repair scheduler disabled")
		return nil
	}
	return a.RepairScheduler.Start()
}

// Close shuts down background services and storage
func (a *App) Close() error {
	if a.RepairScheduler != nil {
		a.RepairScheduler.Stop()
	}
	if a.ProviderFactory != nil {
		a.ProviderFactory.Close()
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("storage shutdown failed: %w", err)
		}
	}
	a.Logger.Info().Msg("Application closed")
	return nil
}
