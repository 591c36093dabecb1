package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/beaver-systems/beaver/internal/httputil"
)

// Pinger is the slice of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a liveness handler that checks store connectivity.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
