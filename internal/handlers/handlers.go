// Package handlers contains the HTTP layer: one file per resource, each
// handler decoding the request, delegating to a service and translating
// service errors into statuses.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/ratelimit"
	"github.com/beaver-systems/beaver/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	events       *service.EventService
	projects     *service.ProjectService
	channels     *service.ChannelService
	auth         *service.AuthService
	limiter      ratelimit.RateLimiter
	logger       *logging.Logger
	pollInterval time.Duration
	batchLimit   int
}

// NewHandler wires the handler set. pollInterval drives the SSE tail loop;
// batchLimit caps how many events one poll may deliver.
func NewHandler(
	events *service.EventService,
	projects *service.ProjectService,
	channels *service.ChannelService,
	auth *service.AuthService,
	limiter ratelimit.RateLimiter,
	logger *logging.Logger,
	pollInterval time.Duration,
	batchLimit int,
) *Handler {
	return &Handler{
		events:       events,
		projects:     projects,
		channels:     channels,
		auth:         auth,
		limiter:      limiter,
		logger:       logger,
		pollInterval: pollInterval,
		batchLimit:   batchLimit,
	}
}

// writeServiceError maps a service error to an HTTP response. Anything
// without a known kind is a 500 with a generic body; the cause is logged,
// never leaked.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		httputil.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httputil.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			logging.Error(err),
			logging.IP(httputil.GetClientIP(r)))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error.")
	}
}

// pathID extracts the trailing numeric id from a route like
// /api/events/channel/{id}.
func pathID(r *http.Request, prefix string) (int64, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed.")
}
