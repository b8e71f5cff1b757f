package interfaces

import (
	"context"
)

// ExtractedText is the result of converting an uploaded file to plain text.
// PageCount is 0 when the format has no page concept.
type ExtractedText struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	FileType  string `json:"file_type"`
}

// TextExtractor converts an uploaded file into plain text for indexing.
// Implementations are selected by file extension; Supports reports whether
// the extractor handles the given filename.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*ExtractedText, error)
	Supports(filename string) bool
}
