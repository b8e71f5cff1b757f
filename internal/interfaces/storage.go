package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// DocumentStorage - interface for document aggregate persistence
type DocumentStorage interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context, projectID string) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int, error)
	CountDocuments(ctx context.Context) (int, error)
	GetStats(ctx context.Context, projectID string) (*models.DocumentStats, error)
}

// QAStorage - interface for Q&A history persistence
type QAStorage interface {
	SaveEntry(ctx context.Context, entry *models.QAEntry) error
	GetEntry(ctx context.Context, id string) (*models.QAEntry, error)
	ListEntries(ctx context.Context, projectID string) ([]*models.QAEntry, error)
	// DeleteEntry removes one entry and renumbers the remaining rows of the
	// project so Row stays a dense 1-based sequence.
	DeleteEntry(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int, error)
	NextRow(ctx context.Context, projectID string) (int, error)
}

// ProjectStorage - interface for project persistence
type ProjectStorage interface {
	SaveProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	DocumentStorage() DocumentStorage
	QAStorage() QAStorage
	ProjectStorage() ProjectStorage
	KeyValueStorage() KeyValueStorage
	// LoadVariablesFromFiles loads key/value variables from TOML files in dirPath
	LoadVariablesFromFiles(ctx context.Context, dirPath string) error
	// LoadEnvFile loads variables from a .env file into the KV store
	LoadEnvFile(ctx context.Context, filePath string) error
	DB() interface{}
	Close() error
}
