package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/aidentify/internal/api/handler"
	mw "github.com/iconidentify/aidentify/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured. An empty
// apiKey leaves the analysis and history routes unauthenticated.
func NewRouter(
	analyzeHandler *handler.AnalyzeHandler,
	healthHandler *handler.HealthHandler,
	historyHandler *handler.HistoryHandler,
	apiKey string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //ready -> /ready)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS for browser clients
	r.Use(mw.CORS)

	// Health endpoints (no auth)
	r.Get("/", healthHandler.Index)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// Analysis endpoints
	r.Group(func(r chi.Router) {
		if apiKey != "" {
			r.Use(mw.APIKeyAuth(apiKey))
		}
		r.Post("/analyze/upload", analyzeHandler.Upload)
		r.Post("/analyze/url", analyzeHandler.URL)
	})

	// API v1 (history; absent when persistence is disabled)
	if historyHandler != nil {
		r.Route("/api/v1", func(r chi.Router) {
			if apiKey != "" {
				r.Use(mw.APIKeyAuth(apiKey))
			}
			r.Get("/history", historyHandler.List)
			r.Get("/history/{recordID}", historyHandler.Get)
		})
	}

	return r
}
