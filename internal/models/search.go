package models

// SearchResult is one scored chunk from a retrieval query. Rank is 1-based
// and dense over the returned slice; Similarity is cosine similarity clamped
// to [-1, 1].
type SearchResult struct {
	DocumentID     string  `json:"document_id"`
	Filename       string  `json:"filename"`
	NormalizedName string  `json:"normalized_name"`
	ChunkIndex     int     `json:"chunk_index"`
	Text           string  `json:"text"`
	Similarity     float64 `json:"similarity"`
	Rank           int     `json:"rank"`
}
