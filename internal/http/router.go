// Package http wires the chi router for the text material API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rezkam/cardfile/internal/domain"
	"github.com/rezkam/cardfile/internal/http/handler"
	mw "github.com/rezkam/cardfile/internal/http/middleware"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(server *handler.Server, authMiddleware *mw.Auth) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "Failed to write health check response", "error", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		// Resolve the caller on every API request. Anonymous requests
		// pass through with approved-only visibility.
		r.Use(authMiddleware.Identify)

		r.Route("/textMaterials", func(r chi.Router) {
			r.Get("/", server.ListMaterials)
			r.Get("/{id}", server.GetMaterial)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuthenticated)
				r.Post("/", server.CreateMaterial)
				r.Put("/{id}", server.UpdateMaterial)
				r.Delete("/{id}", server.DeleteMaterial)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleManager, domain.RoleAdmin))
				r.Put("/{id}/approve", server.ApproveMaterial)
				r.Put("/{id}/reject", server.RejectMaterial)
			})
		})
	})

	return r
}
