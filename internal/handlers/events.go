package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/models"
)

const (
	eventPrefix         = "/api/event/"
	channelEventsPrefix = "/api/events/channel/"
	projectEventsPrefix = "/api/events/project/"
)

// Event handles GET /api/event/{id}.
func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, eventPrefix)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "invalid event id.")
		return
	}
	event, err := h.events.Event(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

// ChannelEvents routes /api/events/channel/{id} and its /stream suffix.
func (h *Handler) ChannelEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if id, ok := streamID(r, channelEventsPrefix); ok {
		h.streamEvents(w, r, func(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
			return h.events.ChannelEvents(ctx, id, q)
		})
		return
	}

	id, ok := pathID(r, channelEventsPrefix)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "invalid channel id.")
		return
	}
	q, err := parseEventQuery(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := h.events.ChannelEvents(r.Context(), id, q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

// ProjectEvents routes /api/events/project/{id} and its /stream suffix.
func (h *Handler) ProjectEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if id, ok := streamID(r, projectEventsPrefix); ok {
		h.streamEvents(w, r, func(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
			return h.events.ProjectEvents(ctx, id, q)
		})
		return
	}

	id, ok := pathID(r, projectEventsPrefix)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "invalid project id.")
		return
	}
	q, err := parseEventQuery(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := h.events.ProjectEvents(r.Context(), id, q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

// MaxEventID handles GET /api/events/max-id.
func (h *Handler) MaxEventID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	maxID, err := h.events.MaxEventID(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MaxEventIDResponse{MaxID: maxID})
}

// streamID reports whether the request targets the /stream suffix and
// extracts the id in front of it.
func streamID(r *http.Request, prefix string) (int64, bool) {
	if !strings.HasSuffix(r.URL.Path, "/stream") {
		return 0, false
	}
	trimmed := *r.URL
	stripped := r.Clone(r.Context())
	stripped.URL = &trimmed
	stripped.URL.Path = strings.TrimSuffix(r.URL.Path, "/stream")
	return pathID(stripped, prefix)
}

// parseEventQuery assembles an EventQuery from the request's query string.
// Semantic validation (cursor exclusivity, sort whitelists) happens in the
// service; this only rejects unparseable values.
func parseEventQuery(r *http.Request) (models.EventQuery, error) {
	var q models.EventQuery
	params := r.URL.Query()

	q.Search = params.Get("search")
	q.SortBy = models.SortField(params.Get("sortBy"))
	q.SortOrder = models.SortOrder(params.Get("sortOrder"))

	var ok bool
	if q.AfterID, ok = httputil.QueryInt64(r, "afterId"); !ok {
		return q, errBadParam("afterId")
	}
	if q.BeforeID, ok = httputil.QueryInt64(r, "beforeId"); !ok {
		return q, errBadParam("beforeId")
	}
	offset, ok := httputil.QueryInt64(r, "offset")
	if !ok {
		return q, errBadParam("offset")
	}
	q.Offset = int(offset)
	limit, ok := httputil.QueryInt64(r, "limit")
	if !ok {
		return q, errBadParam("limit")
	}
	q.Limit = int(limit)

	if q.StartDate, ok = httputil.QueryTime(r, "startDate"); !ok {
		return q, errBadParam("startDate")
	}
	if q.EndDate, ok = httputil.QueryTime(r, "endDate"); !ok {
		return q, errBadParam("endDate")
	}

	if raw := params.Get("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &q.Tags); err != nil {
			return q, errBadParam("tags")
		}
	}
	return q, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errBadParam(name string) error {
	return paramError(name + " parameter is not valid.")
}
