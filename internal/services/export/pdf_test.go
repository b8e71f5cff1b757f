package export

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

type fakeStorage struct {
	project *models.Project
	entries []*models.QAEntry
}

func (f *fakeStorage) DocumentStorage() interfaces.DocumentStorage { return nil }
func (f *fakeStorage) QAStorage() interfaces.QAStorage             { return (*fakeQA)(f) }
func (f *fakeStorage) ProjectStorage() interfaces.ProjectStorage   { return (*fakeProjects)(f) }
func (f *fakeStorage) KeyValueStorage() interfaces.KeyValueStorage { return nil }
func (f *fakeStorage) LoadVariablesFromFiles(context.Context, string) error {
	return nil
}
func (f *fakeStorage) LoadEnvFile(context.Context, string) error { return nil }
func (f *fakeStorage) DB() interface{}                           { return nil }
func (f *fakeStorage) Close() error                              { return nil }

type fakeProjects fakeStorage

func (f *fakeProjects) SaveProject(ctx context.Context, p *models.Project) error { return nil }

func (f *fakeProjects) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	return f.project, nil
}

func (f *fakeProjects) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return nil, nil
}

func (f *fakeProjects) DeleteProject(ctx context.Context, id string) error { return nil }

type fakeQA fakeStorage

func (f *fakeQA) SaveEntry(ctx context.Context, e *models.QAEntry) error { return nil }

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

func (f *fakeQA) NextRow(ctx context.Context, projectID string) (int, error) { return 1, nil }

func TestExportQA_ProducesPDF(t *testing.T) {
	storage := &fakeStorage{
		project: &models.Project{ID: "proj_x", Name: "Acquisition Alpha"},
		entries: []*models.QAEntry{
			{
				ID: "qa_1", ProjectID: "proj_x", Row: 1,
				Question:     "What was EBITDA?",
				Answer:       "EBITDA was $4.6M.",
				Sources:      []models.Source{{Filename: "EBITDA Analysis", Relevance: 0.95}},
				Confidence:   0.95,
				QuestionType: models.QuestionFinancial,
				CreatedAt:    time.Now(),
			},
		},
	}

	data, err := NewService(storage, arbor.NewLogger()).ExportQA(context.Background(), "proj_x")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportQA_EmptyHistoryStillRenders(t *testing.T) {
	storage := &fakeStorage{project: &models.Project{ID: "proj_x", Name: "Empty"}}

	data, err := NewService(storage, arbor.NewLogger()).ExportQA(context.Background(), "proj_x")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportQA_UnknownProject(t *testing.T) {
	storage := &fakeStorage{}
	_, err := NewService(storage, arbor.NewLogger()).ExportQA(context.Background(), "proj_missing")
	require.Error(t, err)
}
