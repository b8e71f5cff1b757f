package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentStorage implements the DocumentStorage interface for Badger.
// A document and its chunks are a single badgerhold record, so save and
// delete are atomic over the whole aggregate.
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) SaveDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if doc.ProjectID == "" {
		return fmt.Errorf("document project ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns the documents of a project, newest first. An empty
// projectID lists all documents.
func (s *DocumentStorage) ListDocuments(ctx context.Context, projectID string) ([]*models.Document, error) {
	query := badgerhold.Where("ID").Ne("")
	if projectID != "" {
		query = badgerhold.Where("ProjectID").Eq(projectID)
	}

	var docs []models.Document
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	result := make([]*models.Document, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

func (s *DocumentStorage) DeleteDocument(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Document{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("document not found: %s", id)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DeleteByProject removes all documents of a project. Returns the number of
// documents deleted.
func (s *DocumentStorage) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	docs, err := s.ListDocuments(ctx, projectID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, doc := range docs {
		if err := s.db.Store().Delete(doc.ID, &models.Document{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete document %s: %w", doc.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *DocumentStorage) CountDocuments(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Document{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

// GetStats aggregates registry statistics for the stats endpoint. An empty
// projectID aggregates over all projects.
func (s *DocumentStorage) GetStats(ctx context.Context, projectID string) (*models.DocumentStats, error) {
	docs, err := s.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &models.DocumentStats{
		TotalDocuments: len(docs),
		ByFileType:     make(map[string]int),
	}
	for _, doc := range docs {
		stats.TotalChunks += len(doc.Chunks)
		stats.TotalPages += doc.PageCount
		if doc.FileType != "" {
			stats.ByFileType[doc.FileType]++
		}
		if doc.UpdatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = doc.UpdatedAt
		}
	}
	return stats, nil
}
