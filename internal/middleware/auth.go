package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/beaver-systems/beaver/internal/httputil"
)

// UserIDKey is the context key holding the authenticated user's id.
const UserIDKey = contextKey("user-id")

// TokenValidator checks a bearer access token and resolves the user it was
// minted for.
type TokenValidator interface {
	ValidateAccessToken(token string) (int64, error)
}

// Auth guards dashboard routes with bearer access tokens. Event ingestion
// does not pass through here; producers authenticate per request with a
// project API key instead.
type Auth struct {
	validator TokenValidator
}

// NewAuth returns an Auth middleware backed by the given validator.
func NewAuth(validator TokenValidator) *Auth {
	return &Auth{validator: validator}
}

// RequireUser rejects requests without a valid Authorization bearer token
// and stores the resolved user id in the request context.
func (a *Auth) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		userID, err := a.validator.ValidateAccessToken(parts[1])
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// UserIDFrom returns the authenticated user id stored by RequireUser.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
