package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// PDFExtractor validates PDF uploads and records their page count. Text
// extraction for PDFs is not performed; the document is registered with
// its metadata only.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Supports(filename string) bool {
	return extensionOf(filename) == ".pdf"
}

func (e *PDFExtractor) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid pdf: %w", err)
	}

	return &interfaces.ExtractedText{
		Text:      "",
		PageCount: pages,
		FileType:  "pdf",
	}, nil
}
