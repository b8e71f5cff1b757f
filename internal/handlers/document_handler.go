package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/agents"
)

// Uploads larger than this are rejected before extraction.
const maxUploadBytes = 32 << 20

// DocumentHandler manages document upload, listing, and deletion.
type DocumentHandler struct {
	extractor interfaces.TextExtractor
	index     interfaces.IndexService
	documents interfaces.DocumentStorage
	logger    arbor.ILogger
}

func NewDocumentHandler(extractor interfaces.TextExtractor, index interfaces.IndexService, documents interfaces.DocumentStorage) *DocumentHandler {
	return &DocumentHandler{
		extractor: extractor,
		index:     index,
		documents: documents,
		logger:    common.GetLogger(),
	}
}

// UploadHandler handles POST /api/upload: multipart form with a "file"
// part and an optional "project_id" field. The file is extracted, chunked,
// embedded, and registered in one pass.
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	projectID := r.FormValue("project_id")
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	if !h.extractor.Supports(header.Filename) {
		WriteError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported file type: %s", header.Filename))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	extracted, err := h.extractor.Extract(r.Context(), header.Filename, data)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	now := time.Now()
	doc := &models.Document{
		ID:             common.NewDocumentID(),
		ProjectID:      projectID,
		Filename:       header.Filename,
		NormalizedName: agents.NormalizeDocumentName(header.Filename),
		FileType:       extracted.FileType,
		PageCount:      extracted.PageCount,
		SizeBytes:      int64(len(data)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.index.AddDocument(r.Context(), doc, extracted.Text); err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Document ingestion failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info().
		Str("document_id", doc.ID).
		Str("project_id", projectID).
		Str("filename", doc.Filename).
		Int("chunks", len(doc.Chunks)).
		Msg("Document uploaded")

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"document_id":     doc.ID,
		"project_id":      doc.ProjectID,
		"filename":        doc.Filename,
		"normalized_name": doc.NormalizedName,
		"file_type":       doc.FileType,
		"page_count":      doc.PageCount,
		"chunks":          len(doc.Chunks),
	})
}

// ListHandler handles GET /api/documents?project_id= (newest first).
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	docs, err := h.documents.ListDocuments(r.Context(), projectID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type docSummary struct {
		ID             string    `json:"id"`
		Filename       string    `json:"filename"`
		NormalizedName string    `json:"normalized_name"`
		FileType       string    `json:"file_type"`
		PageCount      int       `json:"page_count"`
		SizeBytes      int64     `json:"size_bytes"`
		Chunks         int       `json:"chunks"`
		CreatedAt      time.Time `json:"created_at"`
	}

	summaries := make([]docSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, docSummary{
			ID:             doc.ID,
			Filename:       doc.Filename,
			NormalizedName: doc.NormalizedName,
			FileType:       doc.FileType,
			PageCount:      doc.PageCount,
			SizeBytes:      doc.SizeBytes,
			Chunks:         len(doc.Chunks),
			CreatedAt:      doc.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"project_id": projectID,
		"count":      len(summaries),
		"documents":  summaries,
	})
}

// GetHandler handles GET /api/documents/{id}.
func (h *DocumentHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/documents/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// DeleteHandler handles DELETE /api/documents/{id}.
func (h *DocumentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/documents/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := h.index.DeleteDocument(r.Context(), id); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Info().Str("document_id", id).Msg("Document deleted")
	WriteSuccess(w, "document deleted")
}

// StatsHandler handles GET /api/documents/stats?project_id=.
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	stats, err := h.documents.GetStats(r.Context(), projectID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
