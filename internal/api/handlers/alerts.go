package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wisdomwealth-lab/internal/infrastructure/database/repository"
	"wisdomwealth-lab/pkg/logger"
)

// AlertsHandler handles pending alert endpoints
type AlertsHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(repos *repository.Repositories, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		repos:  repos,
		logger: log.WithComponent("alerts"),
	}
}

// ListByUser handles GET /api/v1/alerts/{user_id}
func (h *AlertsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	alerts, err := h.repos.Alerts.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list alerts")
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":        userID,
		"pending_alerts": alerts,
		"count":          len(alerts),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
