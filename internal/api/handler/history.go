package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/aidentify/internal/domain"
	"github.com/iconidentify/aidentify/internal/repository"
)

// HistoryHandler serves past analysis records.
type HistoryHandler struct {
	repo   repository.AnalysisRepository
	logger *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(repo repository.AnalysisRepository, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: logger,
	}
}

// HistoryListResponse contains a paginated record list.
type HistoryListResponse struct {
	Records []*repository.Record `json:"records"`
	Total   int                  `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	records, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list history failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	total, err := h.repo.Count(r.Context())
	if err != nil {
		h.logger.Error("count history failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	if records == nil {
		records = []*repository.Record{}
	}
	h.writeJSON(w, http.StatusOK, HistoryListResponse{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// Get handles GET /api/v1/history/{recordID}
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		h.writeError(w, http.StatusBadRequest, "missing record ID")
		return
	}

	rec, err := h.repo.Get(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			h.writeError(w, http.StatusNotFound, "record not found")
			return
		}
		h.logger.Error("get history failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

func (h *HistoryHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *HistoryHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
