package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/marketlens/backend/internal/analyze"
	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/pkg/logger"
)

// StreamHandler runs an analysis over a websocket, pushing one message
// per pipeline stage so the dashboard can show progress.
type StreamHandler struct {
	service  *analyze.Service
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(service *analyze.Service, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Same open policy as the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// progressMessage is one stage notification on the wire.
type progressMessage struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// resultMessage carries the final report.
type resultMessage struct {
	Stage  string                    `json:"stage"`
	Report *contracts.AnalysisReport `json:"report,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// Stream upgrades the connection and runs one analysis.
// GET /api/analyze/stream?company_name=Apple
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	companyName := r.URL.Query().Get("company_name")

	progress := func(stage, message string) {
		// The final stage is sent with the report below.
		if stage == "complete" {
			return
		}
		if err := conn.WriteJSON(progressMessage{Stage: stage, Message: message}); err != nil {
			h.logger.WithError(err).Debug("Progress write failed")
		}
	}

	report, err := h.service.Analyze(r.Context(), companyName, progress)
	if err != nil {
		msg := "An error occurred while analyzing the company."
		if errors.Is(err, analyze.ErrNoCompanyName) {
			msg = "No company name provided."
		}
		_ = conn.WriteJSON(resultMessage{Stage: "error", Error: msg})
		return
	}

	if err := conn.WriteJSON(resultMessage{Stage: "complete", Report: report}); err != nil {
		h.logger.WithError(err).Debug("Result write failed")
	}
}
