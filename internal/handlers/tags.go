package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
)

const (
	channelTagsPrefix = "/api/tags/channel/"
	projectTagsPrefix = "/api/tags/project/"
)

// ChannelTags handles GET /api/tags/channel/{id}.
func (h *Handler) ChannelTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, channelTagsPrefix)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "invalid channel id.")
		return
	}
	tags, err := h.events.ChannelTags(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tags)
}

// ProjectTags handles GET /api/tags/project/{id}.
func (h *Handler) ProjectTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, projectTagsPrefix)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "invalid project id.")
		return
	}
	tags, err := h.events.ProjectTags(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tags)
}
