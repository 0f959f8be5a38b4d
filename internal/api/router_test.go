package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iconidentify/aidentify/internal/api/handler"
	"github.com/iconidentify/aidentify/internal/domain"
)

type stubService struct{}

func (stubService) AnalyzeUpload(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error) {
	r := domain.Inconclusive(domain.EvidenceItem{Label: "File", Value: "Unsupported"})
	return &r, nil
}

func (stubService) AnalyzeURL(ctx context.Context, rawURL string) (*domain.VerdictResult, error) {
	r := domain.Inconclusive(domain.EvidenceItem{Label: "File", Value: "Unsupported"})
	return &r, nil
}

func (stubService) Ready(ctx context.Context) error { return nil }

func newTestRouter(apiKey string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := stubService{}
	return NewRouter(
		handler.NewAnalyzeHandler(svc, 1<<20, logger),
		handler.NewHealthHandler(svc),
		nil,
		apiKey,
	)
}

func TestRouter_HealthOpenWithoutKey(t *testing.T) {
	router := newTestRouter("secret")

	for _, path := range []string{"/", "/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRouter_AnalyzeRequiresKey(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/analyze/url", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "/analyze/url", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status with key = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_NoKeyConfigured(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/analyze/url", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (auth disabled)", w.Code, http.StatusOK)
	}
}

func TestRouter_HistoryAbsentWhenDisabled(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
