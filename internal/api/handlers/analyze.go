package handlers

import (
	"errors"
	"net/http"

	"github.com/marketlens/backend/internal/analyze"
	"github.com/marketlens/backend/pkg/logger"
)

// AnalyzeHandler handles the company analysis endpoint.
type AnalyzeHandler struct {
	service *analyze.Service
	logger  *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *analyze.Service, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  log,
	}
}

// Analyze runs a full company analysis.
// GET /api/analyze?company_name=Apple
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyName := r.URL.Query().Get("company_name")

	report, err := h.service.Analyze(ctx, companyName, nil)
	if err != nil {
		if errors.Is(err, analyze.ErrNoCompanyName) {
			respondError(w, http.StatusBadRequest, "No company name provided.")
			return
		}

		// The pipeline absorbs everything else; reaching here means a
		// bug, not a bad upstream.
		h.logger.WithError(err).WithField("company", companyName).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError,
			"An error occurred while analyzing the company. Please try again with a different company name.")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
