package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/models"
)

// CreateAdmin handles POST /api/admin, the unauthenticated one-time setup
// call. The service refuses it once any admin exists.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req models.CreateAdminRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
		return
	}
	user, err := h.auth.CreateAdmin(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
