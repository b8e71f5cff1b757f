package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// RepairRunner triggers an immediate embedding repair pass.
type RepairRunner interface {
	RunNow(ctx context.Context) (int, error)
}

type APIHandler struct {
	llm    interfaces.LLMService
	repair RepairRunner
	logger arbor.ILogger
}

func NewAPIHandler(llm interfaces.LLMService, repair RepairRunner) *APIHandler {
	return &APIHandler{
		llm:    llm,
		repair: repair,
		logger: common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status, including provider reachability.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	response := map[string]interface{}{
		"status":     "ok",
		"llm_mode":   string(h.llm.GetMode()),
		"provider":   "ok",
		"goroutines": common.GetGoroutineCount(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.llm.HealthCheck(ctx); err != nil {
		response["provider"] = "unreachable"
	}

	WriteJSON(w, http.StatusOK, response)
}

// RepairHandler handles POST /api/repair: run an immediate embedding repair
// pass over chunks left with zero vectors, without waiting for the schedule.
func (h *APIHandler) RepairHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	repaired, err := h.repair.RunNow(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Manual embedding repair failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"repaired": repaired,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
