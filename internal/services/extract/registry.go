package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// Registry dispatches uploads to the extractor matching their extension.
type Registry struct {
	extractors []interfaces.TextExtractor
	logger     arbor.ILogger
}

func NewRegistry(logger arbor.ILogger) *Registry {
	return &Registry{
		extractors: []interfaces.TextExtractor{
			NewPlainTextExtractor(),
			NewMarkdownExtractor(),
			NewHTMLExtractor(),
			NewEmailExtractor(),
			NewPDFExtractor(),
		},
		logger: logger.WithPrefix("extract"),
	}
}

// Extract converts an uploaded file to plain text for indexing.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	for _, e := range r.extractors {
		if e.Supports(filename) {
			result, err := e.Extract(ctx, filename, data)
			if err != nil {
				return nil, fmt.Errorf("extraction failed for %s: %w", filename, err)
			}
			r.logger.Debug().
				Str("filename", filename).
				Str("file_type", result.FileType).
				Int("chars", len(result.Text)).
				Msg("Extracted text")
			return result, nil
		}
	}
	return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
}

// Supports reports whether any registered extractor handles the filename.
func (r *Registry) Supports(filename string) bool {
	for _, e := range r.extractors {
		if e.Supports(filename) {
			return true
		}
	}
	return false
}

func extensionOf(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
