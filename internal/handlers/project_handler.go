package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/services/projects"
)

// ProjectHandler exposes project CRUD.
type ProjectHandler struct {
	projects *projects.Service
	logger   arbor.ILogger
}

func NewProjectHandler(service *projects.Service) *ProjectHandler {
	return &ProjectHandler{
		projects: service,
		logger:   common.GetLogger(),
	}
}

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type projectUpdateRequest struct {
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// ListHandler handles GET /api/projects.
func (h *ProjectHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(list),
		"projects": list,
	})
}

// CreateHandler handles POST /api/projects.
func (h *ProjectHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

// GetHandler handles GET /api/projects/{id}.
func (h *ProjectHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/projects/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing project id")
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

// UpdateHandler handles PUT /api/projects/{id}.
func (h *ProjectHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/projects/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing project id")
		return
	}

	var req projectUpdateRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

// DeleteHandler handles DELETE /api/projects/{id}. Documents and Q&A
// history of the project are removed with it.
func (h *ProjectHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := PathID(r.URL.Path, "/api/projects/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing project id")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteSuccess(w, "project deleted")
}
