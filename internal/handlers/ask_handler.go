package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// AskHandler exposes question answering over the indexed documents.
type AskHandler struct {
	orchestrator interfaces.OrchestratorService
	logger       arbor.ILogger
}

func NewAskHandler(orchestrator interfaces.OrchestratorService) *AskHandler {
	return &AskHandler{
		orchestrator: orchestrator,
		logger:       common.GetLogger(),
	}
}

type askRequest struct {
	Question    string   `json:"question" validate:"required,min=3"`
	ProjectID   string   `json:"project_id"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

type batchAskRequest struct {
	Questions   []string `json:"questions" validate:"required,min=1,max=50,dive,min=3"`
	ProjectID   string   `json:"project_id"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// AskHandler handles POST /api/ask
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req askRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		req.ProjectID = models.DefaultProjectID
	}

	result, err := h.orchestrator.Ask(r.Context(), req.Question, req.ProjectID, req.DocumentIDs)
	if err != nil {
		h.logger.Error().Err(err).Str("project_id", req.ProjectID).Msg("Ask failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// BatchAskHandler handles POST /api/batch-ask. Questions run sequentially;
// one failed question is reported in place without aborting the rest.
func (h *AskHandler) BatchAskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req batchAskRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		req.ProjectID = models.DefaultProjectID
	}

	type batchItem struct {
		Question string               `json:"question"`
		Result   *models.AnswerResult `json:"result,omitempty"`
		Error    string               `json:"error,omitempty"`
	}

	results := make([]batchItem, 0, len(req.Questions))
	for _, question := range req.Questions {
		item := batchItem{Question: question}
		result, err := h.orchestrator.Ask(r.Context(), question, req.ProjectID, req.DocumentIDs)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		results = append(results, item)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"project_id": req.ProjectID,
		"count":      len(results),
		"results":    results,
	})
}
