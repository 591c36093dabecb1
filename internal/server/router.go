// Package server assembles the HTTP surface: routes, middleware chain and
// the listener lifecycle.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beaver-systems/beaver/internal/handlers"
	"github.com/beaver-systems/beaver/internal/middleware"
)

// NewRouter registers all routes and wraps them in the middleware chain.
// Ingestion and the auth endpoints are open; everything else under /api
// requires an access token.
func NewRouter(h *handlers.Handler, auth *middleware.Auth, health http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()

	// Open endpoints
	mux.HandleFunc("/api/event", h.Ingest)
	mux.HandleFunc("/api/admin", h.CreateAdmin)
	mux.HandleFunc("/api/auth/signin", h.SignIn)
	mux.HandleFunc("/api/auth/signout", h.SignOut)
	mux.HandleFunc("/api/auth/refresh", h.Refresh)
	mux.HandleFunc("/healthz", health)
	mux.Handle("/metrics", promhttp.Handler())

	// Token-protected endpoints
	mux.HandleFunc("/api/event/", auth.RequireUser(h.Event))
	mux.HandleFunc("/api/events/channel/", auth.RequireUser(h.ChannelEvents))
	mux.HandleFunc("/api/events/project/", auth.RequireUser(h.ProjectEvents))
	mux.HandleFunc("/api/events/max-id", auth.RequireUser(h.MaxEventID))
	mux.HandleFunc("/api/tags/channel/", auth.RequireUser(h.ChannelTags))
	mux.HandleFunc("/api/tags/project/", auth.RequireUser(h.ProjectTags))
	mux.HandleFunc("/api/project", auth.RequireUser(h.Projects))
	mux.HandleFunc("/api/channel", auth.RequireUser(h.Channels))

	return middleware.RequestID(middleware.CORS(middleware.DefaultCORSConfig())(mux))
}
