package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// IndexService is the chunked retrieval index: ingestion chunks and embeds
// document text, search runs a brute-force cosine scan over stored chunks.
// One writer per document; searches may run concurrently with ingestion of
// other documents.
type IndexService interface {
	// AddDocument chunks and embeds text and persists doc with its chunk
	// list. A chunk whose embedding call fails is stored with a zero vector
	// and the ingestion continues.
	AddDocument(ctx context.Context, doc *models.Document, text string) error

	// Search embeds the query once and returns the topK most similar chunks
	// among documents in projectID, optionally restricted to docIDs. A failed
	// query embedding fails the search.
	Search(ctx context.Context, query, projectID string, docIDs []string, topK int) ([]models.SearchResult, error)

	// DeleteDocument removes the document and all its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// RepairEmbeddings re-embeds chunks left with zero vectors by earlier
	// provider failures. Returns the number of chunks repaired.
	RepairEmbeddings(ctx context.Context) (int, error)
}
