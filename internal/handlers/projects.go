package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/middleware"
	"github.com/beaver-systems/beaver/internal/models"
)

// Projects handles GET, POST and DELETE on /api/project.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, projects)

	case http.MethodPost:
		userID, ok := middleware.UserIDFrom(r.Context())
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "authentication required.")
			return
		}
		var req models.CreateProjectRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
			return
		}
		project, err := h.projects.Create(r.Context(), userID, &req)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		userID, ok := middleware.UserIDFrom(r.Context())
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "authentication required.")
			return
		}
		var req models.DeleteProjectRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
			return
		}
		remaining, err := h.projects.Delete(r.Context(), userID, req.ProjectID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, models.DeleteProjectResponse{Projects: remaining})

	default:
		methodNotAllowed(w)
	}
}
