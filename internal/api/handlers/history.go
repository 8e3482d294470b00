package handlers

import (
	"net/http"
	"strconv"

	"github.com/marketlens/backend/internal/history"
	"github.com/marketlens/backend/pkg/logger"
)

// HistoryHandler serves the analysis audit log.
type HistoryHandler struct {
	repo   *history.Repository
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(repo *history.Repository, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: log,
	}
}

// Recent returns the most recent analyses.
// GET /api/history?limit=20
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := h.repo.Recent(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analysis history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve analysis history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entries,
	})
}
