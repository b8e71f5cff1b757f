package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Service renders a project's Q&A history as a PDF report.
type Service struct {
	projects interfaces.ProjectStorage
	qa       interfaces.QAStorage
	logger   arbor.ILogger
}

func NewService(storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		projects: storage.ProjectStorage(),
		qa:       storage.QAStorage(),
		logger:   logger.WithPrefix("export"),
	}
}

// ExportQA renders the Q&A history of projectID as a PDF document.
func (s *Service) ExportQA(ctx context.Context, projectID string) ([]byte, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project lookup failed: %w", err)
	}
	entries, err := s.qa.ListEntries(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("history lookup failed: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, "Q&A Report: "+project.Name, "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", "L", false)
	pdf.Ln(4)

	if len(entries) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, "No questions have been asked in this project yet.", "", "L", false)
	}

	for _, entry := range entries {
		s.writeEntry(pdf, entry)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}

	s.logger.Info().
		Str("project_id", projectID).
		Int("entries", len(entries)).
		Int("bytes", buf.Len()).
		Msg("Exported QA report")
	return buf.Bytes(), nil
}

func (s *Service) writeEntry(pdf *fpdf.Fpdf, entry *models.QAEntry) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", entry.Row, entry.Question), "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, entry.Answer, "", "L", false)

	if len(entry.Sources) > 0 {
		pdf.SetFont("Helvetica", "I", 9)
		for _, src := range entry.Sources {
			pdf.MultiCell(0, 5, fmt.Sprintf("Source: %s (relevance %.2f)", src.Filename, src.Relevance), "", "L", false)
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4, fmt.Sprintf("Confidence %.2f | %s | %s",
		entry.Confidence, entry.QuestionType, entry.CreatedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(3)
}
