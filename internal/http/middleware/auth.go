// Package middleware provides HTTP middleware for authentication and
// authorization.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rezkam/cardfile/internal/auth"
	"github.com/rezkam/cardfile/internal/domain"
	"github.com/rezkam/cardfile/internal/http/response"
)

// Auth is HTTP middleware for bearer token authentication.
type Auth struct {
	verifier *auth.Verifier
}

// NewAuth creates a new auth middleware.
func NewAuth(verifier *auth.Verifier) *Auth {
	return &Auth{verifier: verifier}
}

// Identify resolves the caller from the Authorization header when one is
// present. Requests without a header pass through anonymously with
// approved-only visibility. A header that is present but invalid is a hard
// 401: a stale token should fail loudly rather than silently degrade to
// anonymous results.
func (a *Auth) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		caller, err := a.verifier.Verify(raw)
		if err != nil {
			slog.WarnContext(r.Context(), "authentication failed: invalid or expired token",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err.Error())
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
	})
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAuthenticated(r.Context()) {
			response.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers whose role is not one of the given roles.
// Implies RequireAuthenticated.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthenticated(r.Context()) {
				response.Unauthorized(w, "authentication required")
				return
			}
			caller := auth.CallerFromContext(r.Context())
			for _, role := range roles {
				if caller.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			slog.WarnContext(r.Context(), "authorization failed: insufficient role",
				"path", r.URL.Path,
				"method", r.Method,
				"role", string(caller.Role))
			response.Forbidden(w, "insufficient permissions")
		})
	}
}
