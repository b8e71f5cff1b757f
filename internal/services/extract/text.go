package extract

import (
	"context"
	"strings"

	"github.com/ternarybob/scrutor/internal/interfaces"
)

// PlainTextExtractor passes .txt, .csv, and .log files through unchanged.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Supports(filename string) bool {
	switch extensionOf(filename) {
	case ".txt", ".csv", ".log":
		return true
	}
	return false
}

func (e *PlainTextExtractor) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	return &interfaces.ExtractedText{
		Text:     strings.TrimSpace(string(data)),
		FileType: strings.TrimPrefix(extensionOf(filename), "."),
	}, nil
}
