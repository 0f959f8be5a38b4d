// Package detectorapi exposes the forensic analyzers over HTTP for the
// main API service to call.
package detectorapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mw "github.com/iconidentify/aidentify/internal/api/middleware"
)

// NewRouter creates the detector service router.
func NewRouter(analyzeHandler *AnalyzeHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/", analyzeHandler.Live)
	r.Post("/analyze/image", analyzeHandler.Image)
	r.Post("/analyze/video", analyzeHandler.Video)

	return r
}
