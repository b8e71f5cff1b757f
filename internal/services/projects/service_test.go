package projects

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

type memStores struct {
	projects map[string]*models.Project
	docs     map[string]string // doc id -> project id
	qa       map[string]string // entry id -> project id
}

func newMemStores() *memStores {
	return &memStores{
		projects: make(map[string]*models.Project),
		docs:     make(map[string]string),
		qa:       make(map[string]string),
	}
}

func (m *memStores) DocumentStorage() interfaces.DocumentStorage { return (*memDocs)(m) }
func (m *memStores) QAStorage() interfaces.QAStorage { return (*memQA)(m) }
func (m *memStores) ProjectStorage() interfaces.ProjectStorage { return (*memProjects)(m) }
func (m *memStores) KeyValueStorage() interfaces.KeyValueStorage { return nil }
func (m *memStores) LoadVariablesFromFiles(context.Context, string) error { return nil }
func (m *memStores) LoadEnvFile(context.Context, string) error { return nil }
func (m *memStores) DB() interface{} { return nil }
func (m *memStores) Close() error { return nil }

type memProjects memStores

func (m *memProjects) SaveProject(ctx context.Context, p *models.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *memProjects) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	return p, nil
}

func (m *memProjects) ListProjects(ctx context.Context) ([]*models.Project, error) {
	var result []*models.Project
	for _, p := range m.projects {
		result = append(result, p)
	}
	return result, nil
}

func (m *memProjects) DeleteProject(ctx context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

type memDocs memStores

func (m *memDocs) SaveDocument(ctx context.Context, doc *models.Document) error {
	m.docs[doc.ID] = doc.ProjectID
	return nil
}

func (m *memDocs) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, fmt.Errorf("not found")
}

func (m *memDocs) ListDocuments(ctx context.Context, projectID string) ([]*models.Document, error) {
	return nil, nil
}

func (m *memDocs) DeleteDocument(ctx context.Context, id string) error { return nil }

func (m *memDocs) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	count := 0
	for id, pid := range m.docs {
		if pid == projectID {
			delete(m.docs, id)
			count++
		}
	}
	return count, nil
}

func (m *memDocs) CountDocuments(ctx context.Context) (int, error) { return len(m.docs), nil }

func (m *memDocs) GetStats(ctx context.Context, projectID string) (*models.DocumentStats, error) {
	return &models.DocumentStats{}, nil
}

type memQA memStores

func (m *memQA) SaveEntry(ctx context.Context, e *models.QAEntry) error {
	m.qa[e.ID] = e.ProjectID
	return nil
}

func (m *memQA) GetEntry(ctx context.Context, id string) (*models.QAEntry, error) {
	return nil, fmt.Errorf("not found")
}

func (m *memQA) ListEntries(ctx context.Context, projectID string) ([]*models.QAEntry, error) {
	return nil, nil
}

func (m *memQA) DeleteEntry(ctx context.Context, id string) error { return nil }

func (m *memQA) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	count := 0
	for id, pid := range m.qa {
		if pid == projectID {
			delete(m.qa, id)
			count++
		}
	}
	return count, nil
}

func (m *memQA) NextRow(ctx context.Context, projectID string) (int, error) { return 1, nil }

func TestEnsureDefault_Idempotent(t *testing.T) {
	stores := newMemStores()
	svc := NewService(stores, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefault(ctx))
	require.NoError(t, svc.EnsureDefault(ctx))

	project, err := svc.Get(ctx, models.DefaultProjectID)
	require.NoError(t, err)
	assert.Equal(t, "Default Project", project.Name)
	assert.Len(t, stores.projects, 1)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMemStores(), arbor.NewLogger())

	_, err := svc.Create(context.Background(), "   ", "")
	require.Error(t, err)
}

func TestCreate_AndUpdate(t *testing.T) {
	svc := NewService(newMemStores(), arbor.NewLogger())
	ctx := context.Background()

	project, err := svc.Create(ctx, "Acquisition Alpha", "Q3 diligence")
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)

	updated, err := svc.Update(ctx, project.ID, "Acquisition Beta", "")
	require.NoError(t, err)
	assert.Equal(t, "Acquisition Beta", updated.Name)
	// Empty description leaves the old value in place.
	assert.Equal(t, "Q3 diligence", updated.Description)
}

func TestDelete_CascadesToDocumentsAndHistory(t *testing.T) {
	stores := newMemStores()
	svc := NewService(stores, arbor.NewLogger())
	ctx := context.Background()

	project, err := svc.Create(ctx, "Doomed", "")
	require.NoError(t, err)

	require.NoError(t, stores.DocumentStorage().SaveDocument(ctx, &models.Document{ID: "doc_1", ProjectID: project.ID}))
	require.NoError(t, stores.QAStorage().SaveEntry(ctx, &models.QAEntry{ID: "qa_1", ProjectID: project.ID}))

	require.NoError(t, svc.Delete(ctx, project.ID))

	_, err = svc.Get(ctx, project.ID)
	require.Error(t, err)
	assert.Empty(t, stores.docs)
	assert.Empty(t, stores.qa)
}

func TestDelete_DefaultProjectProtected(t *testing.T) {
	svc := NewService(newMemStores(), arbor.NewLogger())
	require.NoError(t, svc.EnsureDefault(context.Background()))

	err := svc.Delete(context.Background(), models.DefaultProjectID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deleted")
}
