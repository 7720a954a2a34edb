package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// PreferenceStore reads and writes family preference records.
type PreferenceStore interface {
	GetPreference(ctx context.Context, userID string) (*models.FamilyPreference, error)
	UpsertPreference(ctx context.Context, pref *models.FamilyPreference) error
}

// PreferenceCache caches preference reads. Updates invalidate the entry.
type PreferenceCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	preferenceCacheKey = "prefs:"
	preferenceCacheTTL = 5 * time.Minute
)

// PreferencesHandler handles family preference endpoints
type PreferencesHandler struct {
	store  PreferenceStore
	cache  PreferenceCache
	logger *logger.Logger
}

// NewPreferencesHandler creates a new PreferencesHandler.
// cache may be nil; reads then always hit the store.
func NewPreferencesHandler(store PreferenceStore, cache PreferenceCache, log *logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		store:  store,
		cache:  cache,
		logger: log.WithComponent("preferences"),
	}
}

// Get handles GET /api/v1/preferences/{user_id}.
// Users with no stored record get the implicit defaults.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if h.cache != nil {
		var cached models.FamilyPreference
		found, err := h.cache.GetJSON(r.Context(), preferenceCacheKey+userID, &cached)
		if err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("preference cache read failed")
		} else if found {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	pref, err := h.store.GetPreference(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get preference")
		writeError(w, http.StatusInternalServerError, "failed to get preference")
		return
	}
	if pref == nil {
		pref = models.DefaultFamilyPreference(userID)
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), preferenceCacheKey+userID, pref, preferenceCacheTTL); err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("preference cache write failed")
		}
	}

	writeJSON(w, http.StatusOK, pref)
}

// UpdatePreferenceRequest is the preference update body
type UpdatePreferenceRequest struct {
	AllowAlerts    *bool    `json:"allow_alerts"`
	AlertThreshold string   `json:"alert_threshold"`
	Contacts       []string `json:"contacts"`
}

// Update handles PUT /api/v1/preferences/{user_id}
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pref, err := h.store.GetPreference(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get preference")
		writeError(w, http.StatusInternalServerError, "failed to update preference")
		return
	}
	if pref == nil {
		pref = models.DefaultFamilyPreference(userID)
	}

	if req.AllowAlerts != nil {
		pref.AllowAlerts = *req.AllowAlerts
	}
	if req.AlertThreshold != "" {
		threshold := models.RiskLevel(strings.ToUpper(req.AlertThreshold))
		if !threshold.Valid() {
			writeError(w, http.StatusBadRequest, "invalid alert_threshold")
			return
		}
		pref.AlertThreshold = threshold
	}
	if req.Contacts != nil {
		pref.Contacts = req.Contacts
	}

	if err := h.store.UpsertPreference(r.Context(), pref); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert preference")
		writeError(w, http.StatusInternalServerError, "failed to update preference")
		return
	}

	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), preferenceCacheKey+userID); err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("preference cache invalidation failed")
		}
	}

	writeJSON(w, http.StatusOK, pref)
}
