package detectorapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/iconidentify/aidentify/internal/analysis"
	"github.com/iconidentify/aidentify/internal/domain"
)

// AnalyzeHandler runs the forensic analyzers on uploaded media.
type AnalyzeHandler struct {
	images   *analysis.ImageAnalyzer
	videos   *analysis.VideoAnalyzer
	tempPath string
	logger   *slog.Logger
}

// NewAnalyzeHandler creates the detector's analysis handler. tempPath is
// where incoming video uploads are spooled before sampling.
func NewAnalyzeHandler(images *analysis.ImageAnalyzer, videos *analysis.VideoAnalyzer, tempPath string, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		images:   images,
		videos:   videos,
		tempPath: tempPath,
		logger:   logger,
	}
}

// Live handles GET / as a liveness probe.
func (h *AnalyzeHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "detector"})
}

// Image handles POST /analyze/image. The image arrives either as a
// multipart "file" part or as the raw request body.
func (h *AnalyzeHandler) Image(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "no image data in request")
		return
	}

	result := h.images.Analyze(data)
	h.logger.Info("image analyzed", "verdict", string(result.Verdict), "confidence", result.Confidence)
	h.writeJSON(w, http.StatusOK, result)
}

// Video handles POST /analyze/video. The upload is spooled to a temp file
// because frame sampling needs a seekable path for ffmpeg.
func (h *AnalyzeHandler) Video(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "no video data in request")
		return
	}

	path := filepath.Join(h.tempPath, uuid.New().String()+".mp4")
	if err := os.WriteFile(path, data, 0644); err != nil {
		h.logger.Error("spool video upload", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(path)

	result := h.videos.Analyze(r.Context(), path)
	h.logger.Info("video analyzed", "verdict", string(result.Verdict), "confidence", result.Confidence)
	h.writeJSON(w, http.StatusOK, result)
}

// readUpload extracts the media bytes from a multipart "file" part, falling
// back to the raw body for clients that post bytes directly.
func readUpload(r *http.Request) ([]byte, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		return io.ReadAll(file)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ErrNoMediaFile
	}
	return data, nil
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
