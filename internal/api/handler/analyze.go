package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/iconidentify/aidentify/internal/domain"
)

// AnalysisService is the orchestration boundary the handlers call into.
type AnalysisService interface {
	AnalyzeUpload(ctx context.Context, data io.Reader, filename string) (*domain.VerdictResult, error)
	AnalyzeURL(ctx context.Context, rawURL string) (*domain.VerdictResult, error)
	Ready(ctx context.Context) error
}

// AnalyzeHandler handles media classification requests.
type AnalyzeHandler struct {
	svc      AnalysisService
	maxBytes int64
	logger   *slog.Logger
}

// NewAnalyzeHandler creates an analyze handler. maxBytes caps upload size.
func NewAnalyzeHandler(svc AnalysisService, maxBytes int64, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		svc:      svc,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// URLRequest is the JSON alternative to the `url` form field.
type URLRequest struct {
	URL string `json:"url"`
}

// Upload handles POST /analyze/upload with a multipart "file" part.
func (h *AnalyzeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing multipart file field")
		return
	}
	defer file.Close()

	result, err := h.svc.AnalyzeUpload(r.Context(), file, header.Filename)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// URL handles POST /analyze/url. The URL arrives as a `url` form field or a
// JSON body.
func (h *AnalyzeHandler) URL(w http.ResponseWriter, r *http.Request) {
	rawURL := r.FormValue("url")
	if rawURL == "" {
		var req URLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			rawURL = req.URL
		}
	}

	result, err := h.svc.AnalyzeURL(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyURL) {
			h.writeError(w, http.StatusBadRequest, "missing url")
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *AnalyzeHandler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrDetectorUnavailable) {
		h.logger.Error("detector unreachable", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "detector unavailable")
		return
	}
	h.logger.Error("analysis failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "analysis failed")
}

func (h *AnalyzeHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *AnalyzeHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
