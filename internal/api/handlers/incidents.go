package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// IncidentStore reads the incident ledger.
type IncidentStore interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.Incident, error)
	GetByID(ctx context.Context, id int64) (*models.Incident, error)
}

// IncidentsHandler handles incident ledger endpoints
type IncidentsHandler struct {
	store  IncidentStore
	logger *logger.Logger
}

// NewIncidentsHandler creates a new IncidentsHandler
func NewIncidentsHandler(store IncidentStore, log *logger.Logger) *IncidentsHandler {
	return &IncidentsHandler{
		store:  store,
		logger: log.WithComponent("incidents"),
	}
}

// ListByUser handles GET /api/v1/incidents/{user_id}
func (h *IncidentsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	incidents, err := h.store.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list incidents")
		writeError(w, http.StatusInternalServerError, "failed to list incidents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"incidents": incidents,
		"count":     len(incidents),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetByID handles GET /api/v1/incidents/{user_id}/{incident_id}.
// The incident must belong to the user in the path.
func (h *IncidentsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	id, err := strconv.ParseInt(chi.URLParam(r, "incident_id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid incident id")
		return
	}

	incident, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("incident_id", id).Msg("failed to get incident")
		writeError(w, http.StatusInternalServerError, "failed to get incident")
		return
	}
	if incident == nil || incident.UserID != userID {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}

	writeJSON(w, http.StatusOK, incident)
}
