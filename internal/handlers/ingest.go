package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/metrics"
	"github.com/beaver-systems/beaver/internal/models"
)

// Ingest handles POST /api/event, the only endpoint authenticated by api
// key instead of an access token.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req models.IngestRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		metrics.IngestRejected.WithLabelValues("bad_body").Inc()
		httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
		return
	}

	if req.APIKey != "" {
		allowed, err := h.limiter.Allow(r.Context(), req.APIKey)
		if err != nil {
			h.logger.WarnContext(r.Context(), "rate limiter unavailable", logging.Error(err))
		} else if !allowed {
			httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded.")
			return
		}
	}

	event, err := h.events.Ingest(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}
