package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Ingestion and question answering
	mux.HandleFunc("/api/upload", s.app.DocumentHandler.UploadHandler)
	mux.HandleFunc("/api/ask", s.app.AskHandler.AskHandler)
	mux.HandleFunc("/api/batch-ask", s.app.AskHandler.BatchAskHandler)

	// Documents
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)
	mux.HandleFunc("/api/documents/", s.handleDocumentRoutes) // GET/DELETE /{id}

	// Projects
	mux.HandleFunc("/api/projects", s.handleProjectsRoute)  // GET (list), POST (create)
	mux.HandleFunc("/api/projects/", s.handleProjectRoutes) // GET/PUT/DELETE /{id}

	// Q&A history and export
	mux.HandleFunc("/api/qa", s.app.QAHandler.ListHandler)
	mux.HandleFunc("/api/qa/", s.handleQARoutes) // DELETE /{id}
	mux.HandleFunc("/api/export", s.app.QAHandler.ExportHandler)

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/repair", s.app.APIHandler.RepairHandler) // Manual embedding repair trigger
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler) // Graceful shutdown endpoint (dev mode)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleDocumentRoutes routes /api/documents/{id} requests
func (s *Server) handleDocumentRoutes(w http.ResponseWriter, r *http.Request) {
	// /api/documents/stats is registered separately; everything else under
	// the prefix is an id route.
	if strings.HasSuffix(r.URL.Path, "/stats") {
		s.app.DocumentHandler.StatsHandler(w, r)
		return
	}
	RouteResourceItem(w, r, s.app.DocumentHandler.GetHandler, nil, s.app.DocumentHandler.DeleteHandler)
}

// handleProjectsRoute routes /api/projects requests (list and create)
func (s *Server) handleProjectsRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.ProjectHandler.ListHandler, s.app.ProjectHandler.CreateHandler)
}

// handleProjectRoutes routes /api/projects/{id} requests
func (s *Server) handleProjectRoutes(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r, s.app.ProjectHandler.GetHandler, s.app.ProjectHandler.UpdateHandler, s.app.ProjectHandler.DeleteHandler)
}

// handleQARoutes routes /api/qa/{id} requests
func (s *Server) handleQARoutes(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		"DELETE": s.app.QAHandler.DeleteHandler,
	})
}
