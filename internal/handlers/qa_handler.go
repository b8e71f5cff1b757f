package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/export"
)

// QAHandler exposes Q&A history and report export.
type QAHandler struct {
	qa     interfaces.QAStorage
	export *export.Service
	logger arbor.ILogger
}

func NewQAHandler(qa interfaces.QAStorage, exportService *export.Service) *QAHandler {
	return &QAHandler{
		qa:     qa,
		export: exportService,
		logger: common.GetLogger(),
	}
}

// ListHandler handles GET /api/qa?project_id= (rows in order).
func (h *QAHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	entries, err := h.qa.ListEntries(r.Context(), projectID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"project_id": projectID,
		"count":      len(entries),
		"entries":    entries,
	})
}

// DeleteHandler handles DELETE /api/qa/{id}. The remaining entries of the
// project are renumbered to keep rows dense.
func (h *QAHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/qa/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing entry id")
		return
	}

	if err := h.qa.DeleteEntry(r.Context(), id); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteSuccess(w, "entry deleted")
}

// ExportHandler handles GET /api/export?project_id= and streams a PDF
// report of the project's Q&A history.
func (h *QAHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		projectID = models.DefaultProjectID
	}

	data, err := h.export.ExportQA(r.Context(), projectID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-qa-report.pdf", projectID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
