package handlers

import (
	"net/http"

	"github.com/beaver-systems/beaver/internal/httputil"
	"github.com/beaver-systems/beaver/internal/models"
)

const refreshCookie = "beaver_refresh"

// SignIn handles POST /api/auth/signin. The refresh token travels both in
// the body and as an http-only cookie for the dashboard.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req models.SignInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "request body is not valid JSON.")
		return
	}
	resp, err := h.auth.SignIn(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	setRefreshCookie(w, resp.RefreshToken)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// SignOut handles POST /api/auth/signout.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := h.auth.SignOut(r.Context(), refreshTokenFrom(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	clearRefreshCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	resp, err := h.auth.Refresh(r.Context(), refreshTokenFrom(r))
	if err != nil {
		clearRefreshCookie(w)
		h.writeServiceError(w, r, err)
		return
	}
	setRefreshCookie(w, resp.RefreshToken)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// refreshTokenFrom prefers the cookie and falls back to the JSON body, so
// both browsers and API clients work.
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshCookie); err == nil && c.Value != "" {
		return c.Value
	}
	var req models.RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/api/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/api/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
