package extract

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// HTMLExtractor converts HTML to Markdown, which keeps headings and list
// structure as readable text for chunking.
type HTMLExtractor struct {
	converter *md.Converter
}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{converter: md.NewConverter("", true, nil)}
}

func (e *HTMLExtractor) Supports(filename string) bool {
	switch extensionOf(filename) {
	case ".html", ".htm":
		return true
	}
	return false
}

func (e *HTMLExtractor) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	text, err := e.converter.ConvertString(string(data))
	if err != nil {
		return nil, fmt.Errorf("html conversion failed: %w", err)
	}

	return &interfaces.ExtractedText{
		Text:     strings.TrimSpace(text),
		FileType: "html",
	}, nil
}
