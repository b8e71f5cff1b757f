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

// QAStorage implements the QAStorage interface for Badger
type QAStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQAStorage creates a new QAStorage instance
func NewQAStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QAStorage {
	return &QAStorage{
		db:     db,
		logger: logger,
	}
}

func (s *QAStorage) SaveEntry(ctx context.Context, entry *models.QAEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID is required")
	}
	if entry.ProjectID == "" {
		return fmt.Errorf("entry project ID is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save qa entry: %w", err)
	}
	return nil
}

func (s *QAStorage) GetEntry(ctx context.Context, id string) (*models.QAEntry, error) {
	var entry models.QAEntry
	if err := s.db.Store().Get(id, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("qa entry not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get qa entry: %w", err)
	}
	return &entry, nil
}

// ListEntries returns a project's Q&A history ordered by row number.
func (s *QAStorage) ListEntries(ctx context.Context, projectID string) ([]*models.QAEntry, error) {
	var entries []models.QAEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("ProjectID").Eq(projectID)); err != nil {
		return nil, fmt.Errorf("failed to list qa entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Row < entries[j].Row
	})

	result := make([]*models.QAEntry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

// DeleteEntry removes one entry, then renumbers the project's remaining
// entries so Row stays a dense 1-based sequence.
func (s *QAStorage) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.Store().Delete(id, &models.QAEntry{}); err != nil {
		return fmt.Errorf("failed to delete qa entry: %w", err)
	}

	remaining, err := s.ListEntries(ctx, entry.ProjectID)
	if err != nil {
		return err
	}
	for i, e := range remaining {
		if e.Row != i+1 {
			e.Row = i + 1
			if err := s.db.Store().Upsert(e.ID, e); err != nil {
				return fmt.Errorf("failed to renumber qa entry %s: %w", e.ID, err)
			}
		}
	}
	return nil
}

// DeleteByProject removes all Q&A entries of a project. Returns the number
// of entries deleted.
func (s *QAStorage) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	entries, err := s.ListEntries(ctx, projectID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, e := range entries {
		if err := s.db.Store().Delete(e.ID, &models.QAEntry{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete qa entry %s: %w", e.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// NextRow returns the next 1-based row number for a project.
func (s *QAStorage) NextRow(ctx context.Context, projectID string) (int, error) {
	entries, err := s.ListEntries(ctx, projectID)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, e := range entries {
		if e.Row > max {
			max = e.Row
		}
	}
	return max + 1, nil
}
