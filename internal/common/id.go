package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewProjectID generates a unique project ID with the "proj_" prefix
// Format: proj_<uuid>
func NewProjectID() string {
	return "proj_" + uuid.New().String()
}

// NewQAEntryID generates a unique Q&A history entry ID with the "qa_" prefix
// Format: qa_<uuid>
func NewQAEntryID() string {
	return "qa_" + uuid.New().String()
}
