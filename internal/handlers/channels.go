package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/models"
)

// Channels handles GET, POST and DELETE on /api/channel.
func (h *Handler) Channels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID, ok := httputil.QueryInt64(r, "project_id")
		if !ok || projectID <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "project_id parameter is not valid.")
			return
		}
		channels, err := h.channels.List(r.Context(), projectID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, channels)

	case http.MethodPost:
		var req models.CreateChannelRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
			return
		}
		channel, err := h.channels.Create(r.Context(), &req)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, channel)

	case http.MethodDelete:
		var req models.DeleteChannelRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
			return
		}
		if err := h.channels.Delete(r.Context(), req.ChannelID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		methodNotAllowed(w)
	}
}
