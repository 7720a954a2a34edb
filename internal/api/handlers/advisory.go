package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/domain/services"
	"wisdomwealth-lab/pkg/logger"
)

// AdvisoryHandler handles the main advisory routing endpoint
type AdvisoryHandler struct {
	coordinator   *services.Coordinator
	maxInputChars int
	logger        *logger.Logger
}

// NewAdvisoryHandler creates a new AdvisoryHandler
func NewAdvisoryHandler(coordinator *services.Coordinator, maxInputChars int, log *logger.Logger) *AdvisoryHandler {
	if maxInputChars <= 0 {
		maxInputChars = 3000
	}
	return &AdvisoryHandler{
		coordinator:   coordinator,
		maxInputChars: maxInputChars,
		logger:        log.WithComponent("advisory"),
	}
}

// RouteRequest is the advisory request body
type RouteRequest struct {
	UserID string             `json:"user_id"`
	Text   string             `json:"text"`
	Meta   models.RequestMeta `json:"meta,omitempty"`
}

// RouteResponse is the unified advisory response
type RouteResponse struct {
	Response        string   `json:"response"`
	Risk            string   `json:"risk"`
	AgentTraces     []string `json:"agent_traces"`
	Actions         []string `json:"actions"`
	LogsID          *int64   `json:"logs_id"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	Timestamp       string   `json:"timestamp"`
	FamilyAlertID   *int64   `json:"family_alert_id,omitempty"`
}

// Route handles POST /api/v1/route
func (h *AdvisoryHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text input cannot be empty")
		return
	}
	if len(req.Text) > h.maxInputChars {
		writeError(w, http.StatusBadRequest, "text input exceeds maximum length")
		return
	}

	result := h.coordinator.Process(r.Context(), req.UserID, req.Text, req.Meta)

	resp := RouteResponse{
		Response:        result.Response,
		Risk:            strings.ToLower(string(result.Risk)),
		AgentTraces:     result.AgentTraces,
		Actions:         result.Actions,
		LogsID:          result.LogsID,
		ConfidenceScore: result.ConfidenceScore,
		Timestamp:       result.Timestamp.Format(time.RFC3339),
		FamilyAlertID:   result.FamilyAlertID,
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
