package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/pkg/logger"
)

// PatternsHandler handles scam pattern corpus endpoints
type PatternsHandler struct {
	store  *patterns.Store
	logger *logger.Logger
}

// NewPatternsHandler creates a new PatternsHandler
func NewPatternsHandler(store *patterns.Store, log *logger.Logger) *PatternsHandler {
	return &PatternsHandler{
		store:  store,
		logger: log.WithComponent("patterns"),
	}
}

// AddPatternRequest is the pattern submission body
type AddPatternRequest struct {
	Text      string `json:"text"`
	Category  string `json:"category"`
	RiskLevel string `json:"risk_level"`
	Concern   string `json:"concern"`
}

// Add handles POST /api/v1/patterns
func (h *PatternsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	risk := models.RiskLevel(strings.ToUpper(req.RiskLevel))
	if !risk.Valid() {
		writeError(w, http.StatusBadRequest, "invalid risk_level")
		return
	}

	id := h.store.Add(req.Text, req.Category, risk, req.Concern)

	h.logger.Info().Str("pattern_id", id).Str("category", req.Category).Msg("pattern added")

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"count": h.store.Count(),
	})
}

// Stats handles GET /api/v1/patterns/stats
func (h *PatternsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count": h.store.Count(),
		"ready": h.store.Ready(),
	})
}
