package detector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iconidentify/aidentify/internal/domain"
)

func fakeDetector(t *testing.T, wantPath string, result domain.VerdictResult) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != wantPath {
			t.Errorf("request path = %q, want %q", r.URL.Path, wantPath)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart file field: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename == "" {
			t.Error("empty multipart filename")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
}

func TestAnalyzeImage(t *testing.T) {
	want := domain.VerdictResult{
		Verdict:    domain.VerdictInconclusive,
		Confidence: 0.2,
		Evidence: []domain.EvidenceItem{
			{Label: "ELA", Value: "0.12"},
		},
	}
	srv := fakeDetector(t, "/analyze/image", want)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	got, err := c.AnalyzeImage(context.Background(), strings.NewReader("image bytes"), "photo.jpg")
	if err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}
	if got.Verdict != want.Verdict || got.Confidence != want.Confidence {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Evidence) != 1 || got.Evidence[0] != want.Evidence[0] {
		t.Errorf("evidence = %v, want %v", got.Evidence, want.Evidence)
	}
}

func TestAnalyzeFile_RoutesByKind(t *testing.T) {
	want := domain.VerdictResult{Verdict: domain.VerdictLikelyAI, Confidence: 0.6}
	srv := fakeDetector(t, "/analyze/video", want)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewClient(Config{BaseURL: srv.URL})
	got, err := c.AnalyzeFile(context.Background(), path, domain.MediaVideo)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if got.Verdict != domain.VerdictLikelyAI {
		t.Errorf("verdict = %q, want %q", got.Verdict, domain.VerdictLikelyAI)
	}
}

func TestAnalyzeFile_UnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.AnalyzeFile(context.Background(), path, domain.MediaUnknown); !errors.Is(err, domain.ErrUnsupportedMedia) {
		t.Errorf("err = %v, want ErrUnsupportedMedia", err)
	}
}

func TestAnalyze_ConnectionRefused(t *testing.T) {
	// Port 1 is never listening; the failure must map to the unavailable
	// sentinel so callers can escalate it.
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.AnalyzeImage(context.Background(), strings.NewReader("x"), "a.jpg")
	if !errors.Is(err, domain.ErrDetectorUnavailable) {
		t.Errorf("err = %v, want wrapped ErrDetectorUnavailable", err)
	}
}

func TestAnalyze_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.AnalyzeImage(context.Background(), strings.NewReader("x"), "a.jpg")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, domain.ErrDetectorUnavailable) {
		t.Error("an HTTP-level error is not an unavailable detector")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	down := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if err := down.Ping(context.Background()); !errors.Is(err, domain.ErrDetectorUnavailable) {
		t.Errorf("Ping err = %v, want ErrDetectorUnavailable", err)
	}
}
