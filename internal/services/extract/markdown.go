package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/yuin/goldmark"
)

// MarkdownExtractor renders Markdown to HTML and reads back the visible
// text, dropping formatting markers that would pollute embeddings.
type MarkdownExtractor struct {
	md goldmark.Markdown
}

func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{md: goldmark.New()}
}

func (e *MarkdownExtractor) Supports(filename string) bool {
	switch extensionOf(filename) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func (e *MarkdownExtractor) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	var html bytes.Buffer
	if err := e.md.Convert(data, &html); err != nil {
		return nil, fmt.Errorf("markdown render failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&html)
	if err != nil {
		return nil, fmt.Errorf("markdown html parse failed: %w", err)
	}

	return &interfaces.ExtractedText{
		Text:     strings.TrimSpace(doc.Text()),
		FileType: "md",
	}, nil
}
