package index

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Service implements the IndexService interface with a brute-force cosine
// scan over stored chunk embeddings. Documents are independent aggregates:
// one writer per document, searches may run concurrently.
type Service struct {
	embedding   interfaces.EmbeddingService
	storage     interfaces.DocumentStorage
	config      *common.IndexConfig
	repairLimit int
	logger      arbor.ILogger
}

// NewService creates a new index service
func NewService(embedding interfaces.EmbeddingService, storage interfaces.DocumentStorage, config *common.IndexConfig, repairLimit int, logger arbor.ILogger) interfaces.IndexService {
	if repairLimit <= 0 {
		repairLimit = 500
	}
	return &Service{
		embedding:   embedding,
		storage:     storage,
		config:      config,
		repairLimit: repairLimit,
		logger:      logger,
	}
}

// AddDocument chunks and embeds text, then persists the document with its
// chunk list as one aggregate. A chunk whose embedding call fails gets a
// zero vector so ingestion never loses text; the repair pass retries those
// chunks later.
func (s *Service) AddDocument(ctx context.Context, doc *models.Document, text string) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("document with ID is required")
	}

	start := time.Now()
	pieces := ChunkText(text, s.config.ChunkSize, s.config.ChunkOverlap)

	chunks := make([]models.DocumentChunk, 0, len(pieces))
	failed := 0
	for i, piece := range pieces {
		embedding, err := s.embedding.GenerateEmbedding(ctx, piece)
		if err != nil {
			failed++
			s.logger.Warn().
				Err(err).
				Str("doc_id", doc.ID).
				Int("chunk", i).
				Msg("Chunk embedding failed, storing zero vector")
			embedding = make([]float32, s.embedding.Dimension())
		}
		chunks = append(chunks, models.DocumentChunk{
			Index:     i,
			Text:      piece,
			Embedding: embedding,
		})
	}

	doc.Chunks = chunks
	if err := s.storage.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist document %s: %w", doc.ID, err)
	}

	s.logger.Info().
		Str("doc_id", doc.ID).
		Str("filename", doc.Filename).
		Int("chunks", len(chunks)).
		Int("failed_embeddings", failed).
		Dur("duration", time.Since(start)).
		Msg("Document indexed")

	return nil
}

// Search embeds the query once and scans every chunk of the project's
// documents, optionally restricted to a document ID allowlist. Results are
// sorted by descending similarity (stable, so equal scores keep scan order)
// and the top K carry dense 1-based ranks.
func (s *Service) Search(ctx context.Context, query, projectID string, docIDs []string, topK int) ([]models.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = s.config.TopK
	}

	queryVec, err := s.embedding.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		// A failed query embedding fails the whole search; there is no
		// meaningful zero-vector fallback for the query side.
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	docs, err := s.candidateDocuments(ctx, projectID, docIDs)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, doc := range docs {
		for _, chunk := range doc.Chunks {
			results = append(results, models.SearchResult{
				DocumentID:     doc.ID,
				Filename:       doc.Filename,
				NormalizedName: doc.NormalizedName,
				ChunkIndex:     chunk.Index,
				Text:           chunk.Text,
				Similarity:     CosineSimilarity(queryVec, chunk.Embedding),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	s.logger.Debug().
		Str("project_id", projectID).
		Int("candidates", len(docs)).
		Int("results", len(results)).
		Msg("Index search completed")

	return results, nil
}

// DeleteDocument removes the document and all its chunks. The aggregate is
// a single record, so the delete is atomic.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	return s.storage.DeleteDocument(ctx, id)
}

// RepairEmbeddings re-embeds chunks carrying zero vectors, up to the
// configured per-run limit. Each repaired document is saved once with all
// its repaired chunks.
func (s *Service) RepairEmbeddings(ctx context.Context) (int, error) {
	docs, err := s.storage.ListDocuments(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list documents for repair: %w", err)
	}

	repaired := 0
	for _, doc := range docs {
		changed := false
		for i := range doc.Chunks {
			if repaired >= s.repairLimit {
				break
			}
			chunk := &doc.Chunks[i]
			if !chunk.HasZeroEmbedding() || chunk.Text == "" {
				continue
			}

			embedding, err := s.embedding.GenerateEmbedding(ctx, chunk.Text)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("doc_id", doc.ID).
					Int("chunk", chunk.Index).
					Msg("Chunk re-embedding failed, leaving zero vector")
				continue
			}
			chunk.Embedding = embedding
			changed = true
			repaired++
		}

		if changed {
			if err := s.storage.SaveDocument(ctx, doc); err != nil {
				return repaired, fmt.Errorf("failed to save repaired document %s: %w", doc.ID, err)
			}
		}
		if repaired >= s.repairLimit {
			break
		}
	}

	return repaired, nil
}

// candidateDocuments loads the project's documents and applies the optional
// document ID allowlist. Allowlisted IDs outside the project are ignored.
func (s *Service) candidateDocuments(ctx context.Context, projectID string, docIDs []string) ([]*models.Document, error) {
	docs, err := s.storage.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docIDs) == 0 {
		return docs, nil
	}

	allowed := make(map[string]bool, len(docIDs))
	for _, id := range docIDs {
		allowed[id] = true
	}

	filtered := docs[:0:0]
	for _, doc := range docs {
		if allowed[doc.ID] {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}
