package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/metrics"
	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/stream"
)

type eventLister func(ctx context.Context, q models.EventQuery) ([]models.Event, error)

// streamEvents serves an SSE tail. The request's filters are frozen for the
// lifetime of the connection; afterId seeds the cursor. Each poll writes one
// frame, an empty array acting as heartbeat. The loop ends when the client
// disconnects, the server shuts down or a query fails.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request, list eventLister) {
	q, err := parseEventQuery(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The cursor protocol only works in insertion order.
	if (q.SortBy != "" && q.SortBy != models.SortByDate) ||
		(q.SortOrder != "" && q.SortOrder != models.SortDesc) {
		httputil.WriteError(w, http.StatusBadRequest, "streaming requires the default sort order.")
		return
	}
	q.BeforeID = 0
	q.Offset = 0
	if h.batchLimit > 0 && (q.Limit <= 0 || q.Limit > h.batchLimit) {
		q.Limit = h.batchLimit
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming unsupported.")
		return
	}

	// The server's write timeout would sever long-lived connections; lift it
	// for this one and let the poll loop's context bound the stream.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.WarnContext(r.Context(), "clearing write deadline failed", logging.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	tailer := stream.New(stream.QuerierFunc(func(ctx context.Context, afterID int64) ([]models.Event, error) {
		polled := q
		polled.AfterID = afterID
		return list(ctx, polled)
	}), h.pollInterval, q.AfterID)

	err = tailer.Run(r.Context(), func(batch []models.Event) error {
		payload, err := json.Marshal(batch)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && r.Context().Err() == nil {
		h.logger.ErrorContext(r.Context(), "stream poll failed",
			logging.Error(err), logging.Cursor(tailer.Cursor()))
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", "stream closed.")
		flusher.Flush()
	}
}
