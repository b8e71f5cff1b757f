package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Service manages project lifecycle. Deleting a project cascades to its
// documents and Q&A history; the default project can be emptied but never
// removed.
type Service struct {
	projects  interfaces.ProjectStorage
	documents interfaces.DocumentStorage
	qa        interfaces.QAStorage
	logger    arbor.ILogger
}

func NewService(storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		projects:  storage.ProjectStorage(),
		documents: storage.DocumentStorage(),
		qa:        storage.QAStorage(),
		logger:    logger.WithPrefix("projects"),
	}
}

// EnsureDefault creates the default project if it does not exist yet.
// Called once at startup.
func (s *Service) EnsureDefault(ctx context.Context) error {
	if _, err := s.projects.GetProject(ctx, models.DefaultProjectID); err == nil {
		return nil
	}

	now := time.Now()
	project := &models.Project{
		ID:          models.DefaultProjectID,
		Name:        "Default Project",
		Description: "Documents uploaded without an explicit project",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.SaveProject(ctx, project); err != nil {
		return fmt.Errorf("failed to create default project: %w", err)
	}

	s.logger.Info().Str("project_id", project.ID).Msg("Created default project")
	return nil
}

// Create adds a new project with a generated ID.
func (s *Service) Create(ctx context.Context, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	now := time.Now()
	project := &models.Project{
		ID:          common.NewProjectID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.logger.Info().Str("project_id", project.ID).Str("name", name).Msg("Project created")
	return project, nil
}

// Get returns one project by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.projects.GetProject(ctx, id)
}

// List returns all projects, default project first.
func (s *Service) List(ctx context.Context) ([]*models.Project, error) {
	return s.projects.ListProjects(ctx)
}

// Update renames a project and/or changes its description. Empty fields
// are left unchanged.
func (s *Service) Update(ctx context.Context, id, name, description string) (*models.Project, error) {
	project, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		project.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		project.Description = description
	}
	project.UpdatedAt = time.Now()

	if err := s.projects.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes a project together with its documents and Q&A history.
// The default project is protected.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == models.DefaultProjectID {
		return fmt.Errorf("the default project cannot be deleted")
	}
	if _, err := s.projects.GetProject(ctx, id); err != nil {
		return err
	}

	docsDeleted, err := s.documents.DeleteByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project documents: %w", err)
	}
	qaDeleted, err := s.qa.DeleteByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project history: %w", err)
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info().
		Str("project_id", id).
		Int("documents_deleted", docsDeleted).
		Int("qa_deleted", qaDeleted).
		Msg("Project deleted")
	return nil
}
