package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// OrchestratorService answers questions over indexed documents by
// classifying the question, dispatching specialist agents, synthesizing
// their outputs, attributing sources, and fact-checking the answer.
type OrchestratorService interface {
	// Ask answers one question against the documents of projectID,
	// optionally restricted to docIDs. The result is persisted to the
	// project's Q&A history before it is returned.
	Ask(ctx context.Context, question, projectID string, docIDs []string) (*models.AnswerResult, error)
}
