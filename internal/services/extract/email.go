package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/emersion/go-message/mail"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// EmailExtractor reads RFC 5322 messages (.eml): subject and sender as a
// header block, then every inline text part. HTML bodies are converted to
// Markdown; attachments are skipped.
type EmailExtractor struct {
	html *md.Converter
}

func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{html: md.NewConverter("", true, nil)}
}

func (e *EmailExtractor) Supports(filename string) bool {
	return extensionOf(filename) == ".eml"
}

func (e *EmailExtractor) Extract(ctx context.Context, filename string, data []byte) (*interfaces.ExtractedText, error) {
	mr, err := mail.CreateReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("email parse failed: %w", err)
	}

	var sb strings.Builder
	if subject, err := mr.Header.Subject(); err == nil && subject != "" {
		sb.WriteString("Subject: " + subject + "\n")
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		sb.WriteString("From: " + from[0].String() + "\n")
	}
	sb.WriteString("\n")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("email part read failed: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("email body read failed: %w", err)
		}

		switch contentType {
		case "text/plain":
			sb.Write(body)
			sb.WriteString("\n")
		case "text/html":
			if text, err := e.html.ConvertString(string(body)); err == nil {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
	}

	return &interfaces.ExtractedText{
		Text:     strings.TrimSpace(sb.String()),
		FileType: "eml",
	}, nil
}
