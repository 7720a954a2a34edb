package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

type stubPrefStore struct {
	pref   *models.FamilyPreference
	getErr error
	gets   int
	saved  *models.FamilyPreference
}

func (s *stubPrefStore) GetPreference(ctx context.Context, userID string) (*models.FamilyPreference, error) {
	s.gets++
	return s.pref, s.getErr
}

func (s *stubPrefStore) UpsertPreference(ctx context.Context, pref *models.FamilyPreference) error {
	s.saved = pref
	return nil
}

type stubPrefCache struct {
	entries map[string][]byte
	sets    []string
	deletes []string
}

func newStubPrefCache() *stubPrefCache {
	return &stubPrefCache{entries: make(map[string][]byte)}
}

func (s *stubPrefCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (s *stubPrefCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = data
	s.sets = append(s.sets, key)
	return nil
}

func (s *stubPrefCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.deletes = append(s.deletes, keys...)
	return nil
}

func TestPreferencesGetFillsCache(t *testing.T) {
	store := &stubPrefStore{}
	cache := newStubPrefCache()
	h := NewPreferencesHandler(store, cache, logger.NewDefault())

	req := requestWithParams(http.MethodGet, "/api/v1/preferences/user-1", nil, map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pref models.FamilyPreference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pref))
	assert.True(t, pref.AllowAlerts)
	assert.Equal(t, models.RiskMedium, pref.AlertThreshold)

	assert.Equal(t, []string{"prefs:user-1"}, cache.sets)
	assert.Equal(t, 1, store.gets)
}

func TestPreferencesGetServedFromCache(t *testing.T) {
	cached := &models.FamilyPreference{UserID: "user-1", AllowAlerts: false, AlertThreshold: models.RiskHigh}
	cache := newStubPrefCache()
	require.NoError(t, cache.SetJSON(context.Background(), "prefs:user-1", cached, time.Minute))

	// A store error proves the hit never reaches the database.
	store := &stubPrefStore{getErr: errors.New("db down")}
	h := NewPreferencesHandler(store, cache, logger.NewDefault())

	req := requestWithParams(http.MethodGet, "/api/v1/preferences/user-1", nil, map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pref models.FamilyPreference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pref))
	assert.False(t, pref.AllowAlerts)
	assert.Equal(t, models.RiskHigh, pref.AlertThreshold)
	assert.Zero(t, store.gets)
}

func TestPreferencesUpdateInvalidatesCache(t *testing.T) {
	cache := newStubPrefCache()
	require.NoError(t, cache.SetJSON(context.Background(), "prefs:user-1",
		models.DefaultFamilyPreference("user-1"), time.Minute))

	store := &stubPrefStore{}
	h := NewPreferencesHandler(store, cache, logger.NewDefault())

	req := requestWithParams(http.MethodPut, "/api/v1/preferences/user-1",
		strings.NewReader(`{"allow_alerts":false,"alert_threshold":"high"}`),
		map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, store.saved)
	assert.False(t, store.saved.AllowAlerts)
	assert.Equal(t, models.RiskHigh, store.saved.AlertThreshold)

	assert.Equal(t, []string{"prefs:user-1"}, cache.deletes)
	assert.NotContains(t, cache.entries, "prefs:user-1")
}

func TestPreferencesUpdateRejectsBadThreshold(t *testing.T) {
	store := &stubPrefStore{}
	h := NewPreferencesHandler(store, newStubPrefCache(), logger.NewDefault())

	req := requestWithParams(http.MethodPut, "/api/v1/preferences/user-1",
		strings.NewReader(`{"alert_threshold":"EXTREME"}`),
		map[string]string{"user_id": "user-1"})
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, store.saved)
}
