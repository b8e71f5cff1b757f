package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// fakeEmbedder returns canned vectors keyed by text, failing texts listed
// in failOn. Unknown texts get a constant non-zero vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	failOn  map[string]bool
	calls   int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn[text] {
		return nil, fmt.Errorf("provider unavailable")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return f.GenerateEmbedding(ctx, query)
}

func (f *fakeEmbedder) ModelName() string                    { return "fake" }
func (f *fakeEmbedder) Dimension() int                       { return 3 }
func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return true }

// memDocStorage is an in-memory DocumentStorage for index tests.
type memDocStorage struct {
	docs  map[string]*models.Document
	order []string
}

func newMemDocStorage() *memDocStorage {
	return &memDocStorage{docs: make(map[string]*models.Document)}
}

func (m *memDocStorage) SaveDocument(ctx context.Context, doc *models.Document) error {
	if _, exists := m.docs[doc.ID]; !exists {
		m.order = append(m.order, doc.ID)
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *memDocStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}

func (m *memDocStorage) ListDocuments(ctx context.Context, projectID string) ([]*models.Document, error) {
	var result []*models.Document
	for _, id := range m.order {
		doc := m.docs[id]
		if projectID == "" || doc.ProjectID == projectID {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *memDocStorage) DeleteDocument(ctx context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("document not found: %s", id)
	}
	delete(m.docs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memDocStorage) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	docs, _ := m.ListDocuments(ctx, projectID)
	for _, doc := range docs {
		_ = m.DeleteDocument(ctx, doc.ID)
	}
	return len(docs), nil
}

func (m *memDocStorage) CountDocuments(ctx context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *memDocStorage) GetStats(ctx context.Context, projectID string) (*models.DocumentStats, error) {
	return &models.DocumentStats{TotalDocuments: len(m.docs)}, nil
}

func newTestService(embedder interfaces.EmbeddingService, storage interfaces.DocumentStorage) interfaces.IndexService {
	cfg := &common.IndexConfig{ChunkSize: 1000, ChunkOverlap: 200, TopK: 5}
	return NewService(embedder, storage, cfg, 100, arbor.NewLogger())
}

func TestService_AddDocument_ZeroVectorFallback(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{"fail chunk": true}}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	doc := &models.Document{ID: "doc_1", ProjectID: "proj_default", Filename: "a.txt"}
	require.NoError(t, svc.AddDocument(ctx, doc, "fail chunk"))

	saved, err := storage.GetDocument(ctx, "doc_1")
	require.NoError(t, err)
	require.Len(t, saved.Chunks, 1)
	assert.True(t, saved.Chunks[0].HasZeroEmbedding())
	assert.Equal(t, "fail chunk", saved.Chunks[0].Text)
	assert.Len(t, saved.Chunks[0].Embedding, 3)
}

func TestService_Search_RanksBySimilarity(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query":    {1, 0, 0},
		"close":    {1, 0.1, 0},
		"far":      {0, 1, 0},
		"middling": {1, 1, 0},
	}}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_a", ProjectID: "p1", Filename: "a.txt"}, "close"))
	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_b", ProjectID: "p1", Filename: "b.txt"}, "far"))
	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_c", ProjectID: "p1", Filename: "c.txt"}, "middling"))

	results, err := svc.Search(ctx, "query", "p1", nil, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "doc_a", results[0].DocumentID)
	assert.Equal(t, "doc_c", results[1].DocumentID)
	assert.Equal(t, "doc_b", results[2].DocumentID)

	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		assert.True(t, r.Similarity >= -1 && r.Similarity <= 1)
	}
}

func TestService_Search_Deterministic(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{"query": {1, 0, 0}}}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	// All chunks get the same default vector, so scores tie; order must
	// stay stable across repeated searches.
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("doc_%d", i)
		require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: id, ProjectID: "p1", Filename: id + ".txt"}, "same text"))
	}

	first, err := svc.Search(ctx, "query", "p1", nil, 4)
	require.NoError(t, err)
	second, err := svc.Search(ctx, "query", "p1", nil, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Search_ProjectAndAllowlistFilter(t *testing.T) {
	embedder := &fakeEmbedder{}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_p1", ProjectID: "p1", Filename: "p1.txt"}, "text one"))
	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_p2", ProjectID: "p2", Filename: "p2.txt"}, "text two"))

	results, err := svc.Search(ctx, "query", "p1", nil, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc_p1", results[0].DocumentID)

	// An allowlist naming a document outside the project returns nothing.
	results, err = svc.Search(ctx, "query", "p1", []string{"doc_p2"}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestService_Search_QueryEmbeddingFailureFailsSearch(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{"query": true}}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_1", ProjectID: "p1", Filename: "a.txt"}, "content"))

	_, err := svc.Search(ctx, "query", "p1", nil, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query embedding failed")
}

func TestService_DeleteDocument_RemovesChunks(t *testing.T) {
	embedder := &fakeEmbedder{}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_1", ProjectID: "p1", Filename: "a.txt"}, "content"))
	require.NoError(t, svc.DeleteDocument(ctx, "doc_1"))

	results, err := svc.Search(ctx, "query", "p1", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestService_RepairEmbeddings(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{"broken chunk": true}}
	storage := newMemDocStorage()
	svc := newTestService(embedder, storage)
	ctx := context.Background()

	require.NoError(t, svc.AddDocument(ctx, &models.Document{ID: "doc_1", ProjectID: "p1", Filename: "a.txt"}, "broken chunk"))

	saved, _ := storage.GetDocument(ctx, "doc_1")
	require.True(t, saved.Chunks[0].HasZeroEmbedding())

	// Provider recovers; the repair pass fills in the real vector.
	embedder.failOn = nil
	repaired, err := svc.RepairEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	saved, _ = storage.GetDocument(ctx, "doc_1")
	assert.False(t, saved.Chunks[0].HasZeroEmbedding())

	// Nothing left to repair on a second pass.
	repaired, err = svc.RepairEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
}
