package models

import (
	"strings"
	"time"
)

// Document is an indexed document: the uploaded file's metadata plus the
// chunk list produced at ingestion. Chunks carry their embeddings inline so
// a document is a single storage aggregate; writing or deleting a document
// writes or deletes its chunks in the same operation.
type Document struct {
	ID             string `json:"id" badgerhold:"key"` // doc_{uuid}
	ProjectID      string `json:"project_id" badgerhold:"index"`
	Filename       string `json:"filename"`
	NormalizedName string `json:"normalized_name"` // display name, e.g. "EBITDA Analysis"
	FileType       string `json:"file_type"`       // lowercase extension without dot
	PageCount      int    `json:"page_count"`
	SizeBytes      int64  `json:"size_bytes"`

	Chunks []DocumentChunk `json:"chunks"`

	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentChunk is one overlapping window of the document text with its
// embedding vector. A zero-length or all-zero embedding marks a chunk whose
// embedding call failed at ingestion; the repair pass retries those.
type DocumentChunk struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// HasZeroEmbedding reports whether the chunk carries a placeholder vector
// from a failed embedding call.
func (c *DocumentChunk) HasZeroEmbedding() bool {
	if len(c.Embedding) == 0 {
		return true
	}
	for _, v := range c.Embedding {
		if v != 0 {
			return false
		}
	}
	return true
}

// BaseName returns the filename without its extension.
func (d *Document) BaseName() string {
	name := d.Filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// DocumentStats summarizes the document registry for the stats endpoint.
type DocumentStats struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	TotalPages     int            `json:"total_pages"`
	ByFileType     map[string]int `json:"by_file_type"`
	LastUpdated    time.Time      `json:"last_updated"`
}
